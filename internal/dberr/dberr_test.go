package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Other},
		{"not found", gorm.ErrRecordNotFound, NotFound},
		{"wrapped duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), UniqueViolation},
		{"foreign key sentinel", gorm.ErrForeignKeyViolated, ForeignKeyViolation},
		{"check sentinel", gorm.ErrCheckConstraintViolated, CheckViolation},
		{"pg unique", &pgconn.PgError{Code: "23505"}, UniqueViolation},
		{"pg not null", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23502"}), NotNullViolation},
		{"pg check", &pgconn.PgError{Code: "23514"}, CheckViolation},
		{"pg other", &pgconn.PgError{Code: "42P01"}, Other},
		{"sqlite check", errors.New("CHECK constraint failed: chk_recipes_portions"), CheckViolation},
		{"sqlite not null", errors.New("NOT NULL constraint failed: recipes.name"), NotNullViolation},
		{"plain", errors.New("connection reset"), Other},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapKeepsChainAndTable(t *testing.T) {
	t.Parallel()

	if Wrap(nil, "recipes") != nil {
		t.Fatal("Wrap(nil) should return nil")
	}

	err := Wrap(gorm.ErrDuplicatedKey, "recipe_ingredients")
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("wrapped error lost its cause: %v", err)
	}
	if Classify(err) != UniqueViolation {
		t.Fatalf("Classify(wrapped) = %s", Classify(err))
	}
	if got := Message(err); got != "Recipe Ingredient already exists" {
		t.Fatalf("Message = %q", got)
	}
	if again := Wrap(err, "other"); again != err {
		t.Fatal("Wrap should not re-wrap a classified error")
	}
}

func TestIsConflict(t *testing.T) {
	t.Parallel()

	if !IsConflict(gorm.ErrForeignKeyViolated) {
		t.Fatal("foreign key violation should be a conflict")
	}
	if IsConflict(errors.New("timeout")) {
		t.Fatal("unclassified error should not be a conflict")
	}
	if IsConflict(gorm.ErrRecordNotFound) {
		t.Fatal("not found should not be a conflict")
	}
}

func TestMessageWithoutTable(t *testing.T) {
	t.Parallel()

	if got := Message(errors.New("boom")); got != "database error" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(gorm.ErrRecordNotFound); got != "Record not found" {
		t.Fatalf("Message = %q", got)
	}
}
