package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/db"
	applog "recipebox/internal/log"
	"recipebox/internal/repository"
)

var cleanWhitespace = regexp.MustCompile(`\s+`)

var requiredColumns = []string{"recipe", "portions", "instructions", "ingredients", "tools"}

func main() {
	csvPath := "recipes.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(context.Background(), csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	imported, err := importFile(ctx, repository.New(database), csvPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d recipes from %s\n", imported, filepath.Base(csvPath))
	return nil
}

// importFile stores every row of the CSV at path as one recipe. Each recipe is
// written in its own transaction; the first failing row stops the import and
// earlier rows stay committed.
func importFile(ctx context.Context, recipes *repository.Repository, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	imported := 0
	for idx, record := range records {
		in, err := buildRecipe(record)
		if err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, record["recipe"], err)
		}
		id, err := recipes.CreateFullRecipe(ctx, in)
		if err != nil {
			return imported, fmt.Errorf("record %d (%s): %w", idx+1, in.Name, err)
		}
		applog.Debug(ctx, "recipe imported", "recipe_id", id, "name", in.Name)
		imported++
	}
	return imported, nil
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	present := make(map[string]bool, len(header))
	for idx, key := range rows[0] {
		header[idx] = strings.ToLower(strings.TrimSpace(key))
		present[header[idx]] = true
	}
	for _, column := range requiredColumns {
		if !present[column] {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildRecipe(row map[string]string) (repository.NewRecipe, error) {
	portions, err := strconv.Atoi(strings.TrimSpace(row["portions"]))
	if err != nil {
		return repository.NewRecipe{}, fmt.Errorf("parse portions %q: %w", row["portions"], err)
	}

	ingredients, err := parseIngredients(row["ingredients"])
	if err != nil {
		return repository.NewRecipe{}, err
	}

	return repository.NewRecipe{
		RecipeFields: repository.RecipeFields{
			Name:             normalizeText(row["recipe"]),
			NumberOfPortions: portions,
			Instructions:     strings.TrimSpace(row["instructions"]),
			MealType:         optional(row["meal_type"]),
			Nationality:      optional(row["nationality"]),
			Notes:            optional(normalizeText(row["notes"])),
		},
		Ingredients: ingredients,
		Tools:       parseTools(row["tools"]),
	}, nil
}

// parseIngredients reads "name:quantity:unit:component" entries separated by
// semicolons. Everything after the name is optional.
func parseIngredients(value string) ([]repository.IngredientLine, error) {
	var lines []repository.IngredientLine
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 4)
		for len(parts) < 4 {
			parts = append(parts, "")
		}

		line := repository.IngredientLine{
			Name:      normalizeText(parts[0]),
			Unit:      optional(parts[2]),
			Component: optional(parts[3]),
		}
		if raw := normalizeValue(parts[1]); raw != "" {
			quantity, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse quantity for %q: %w", line.Name, err)
			}
			line.Quantity = &quantity
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseTools(value string) []string {
	var tools []string
	for _, tool := range strings.Split(value, ";") {
		if tool = normalizeText(tool); tool != "" {
			tools = append(tools, tool)
		}
	}
	return tools
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	value = cleanWhitespace.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

func optional(value string) *string {
	value = normalizeValue(value)
	if value == "" {
		return nil
	}
	return &value
}
