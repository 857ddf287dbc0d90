package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultConfigPath = "config.yaml"

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	HTTP     HTTPConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string `validate:"required"`
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int `validate:"gte=0"`
	MaxOpenConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig selects the log level and output encoding.
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info error"`
	Format string `validate:"oneof=text json"`
}

// HTTPConfig holds request-level protections applied by the router.
type HTTPConfig struct {
	// RateLimit is the number of write requests allowed per client per minute. Zero disables limiting.
	RateLimit   int `validate:"gte=0"`
	CORSOrigins []string
}

// Load reads an optional YAML file followed by the environment and builds a
// Config value. Environment variables take precedence over the file.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := configFilePath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			k.String("server_addr"),
			k.String("addr"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			k.String("database_url"),
			k.String("db_url"),
			"",
		),
		MaxIdleConns:    parseIntWithDefault(k.String("database_max_idle_conns"), 5),
		MaxOpenConns:    parseIntWithDefault(k.String("database_max_open_conns"), 20),
		ConnMaxLifetime: parseDurationWithDefault(k.String("database_conn_max_lifetime"), time.Hour),
		ConnMaxIdleTime: parseDurationWithDefault(k.String("database_conn_max_idle_time"), 15*time.Minute),
		UseMock:         parseBoolWithDefault(k.String("database_use_mock"), false),
	}

	cfg.Logging = LoggingConfig{
		Level:  strings.ToLower(strings.TrimSpace(k.String("log_level"))),
		Format: strings.ToLower(firstNonEmpty(k.String("log_format"), "text")),
	}

	cfg.HTTP = HTTPConfig{
		RateLimit:   parseIntWithDefault(k.String("http_rate_limit"), 60),
		CORSOrigins: splitList(k.String("http_cors_origins")),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// envKey lowercases variable names and drops blank values so an empty
// variable never masks a value from the config file.
func envKey(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return strings.ToLower(key), value
}

func configFilePath() string {
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
