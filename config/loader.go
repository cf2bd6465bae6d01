package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PIZZA"

// legacyEnv maps the plain environment variables the service has always honoured.
var legacyEnv = map[string]string{
	"app.port":              "PORT",
	"app.gin_mode":          "GIN_MODE",
	"app.allowed_origins":   "ALLOWED_ORIGINS",
	"database.postgres.dsn": "DATABASE_DSN",
	"auth.jwt_secret":       "JWT_SECRET",
}

// Load reads .env, config.yaml and the environment, in increasing priority.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper applies defaults and environment overrides to v and decodes the result.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.NewReplacer(".", "_").Replace(key)), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// ALLOWED_ORIGINS arrives as one comma separated string.
	cfg.App.AllowedOrigins = splitOrigins(cfg.App.AllowedOrigins)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jwt-pizza-service")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8083")
	v.SetDefault("app.gin_mode", "debug")
	v.SetDefault("app.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "pizza")
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)

	v.SetDefault("auth.jwt_secret", "jwt-pizza-dev-secret")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("seed.enabled", true)

	v.SetDefault("client.base_url", "http://localhost:8083")
	v.SetDefault("client.timeout", "10s")
}

func splitOrigins(in []string) []string {
	var out []string
	for _, o := range in {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate rejects configurations the service cannot start with.
func Validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range", cfg.Auth.BcryptCost)
	}
	if cfg.App.Port == "" {
		return errors.New("app.port is required")
	}
	return nil
}

// loadEnvFile loads the first .env found in the working directory or the module root.
func loadEnvFile() {
	paths := []string{".env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
