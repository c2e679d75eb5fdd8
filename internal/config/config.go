package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MinJWTSecretLength is the shortest signing key the service accepts
const MinJWTSecretLength = 32

// ErrWeakJWTSecret is returned by Load when JWT_SECRET_KEY is missing or too short
var ErrWeakJWTSecret = errors.New("JWT Secret key is not properly configured. It must be at least 32 characters long.")

type AppConfig struct {
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	BaseURL  string `yaml:"base_url"`
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey  string `yaml:"secret_key"`
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type TokensConfig struct {
	EmailConfirmationTTL string `yaml:"email_confirmation_ttl"`
	PasswordResetTTL     string `yaml:"password_reset_ttl"`
}

type SMTPConfig struct {
	Server    string `yaml:"server"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	Timeout   string `yaml:"timeout"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Tokens   TokensConfig   `yaml:"tokens"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

// Config is the resolved, read-only service configuration
type Config struct {
	Env      string
	Port     string
	BaseURL  string
	LogLevel string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecretKey string
	JWTIssuer    string
	JWTAudience  string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	EmailConfirmationTTL time.Duration
	PasswordResetTTL     time.Duration

	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	SMTPTimeout  time.Duration

	CasbinModelPath string
}

// IsProduction reports whether detailed error text must be hidden from clients
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return i, nil
}

func envDuration(k, def string) (time.Duration, error) {
	d, err := time.ParseDuration(env(k, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return d, nil
}

// Load resolves configuration from .env, an optional YAML file and the environment,
// in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_FILE", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return fromFile(configFile)
}

func fromFile(f *ConfigFile) (*Config, error) {
	cfg := &Config{
		Env:             env("APP_ENV", orDefault(f.App.Env, "development")),
		BaseURL:         env("APP_BASE_URL", orDefault(f.App.BaseURL, "https://yourdomain.com")),
		LogLevel:        env("LOG_LEVEL", orDefault(f.App.LogLevel, "info")),
		RedisAddr:       env("REDIS_ADDR", orDefault(f.Redis.Addr, "localhost:6379")),
		RedisPassword:   env("REDIS_PASSWORD", f.Redis.Password),
		JWTSecretKey:    env("JWT_SECRET_KEY", f.JWT.SecretKey),
		JWTIssuer:       env("JWT_ISSUER", orDefault(f.JWT.Issuer, "ProductManager")),
		JWTAudience:     env("JWT_AUDIENCE", orDefault(f.JWT.Audience, "ProductManagerClients")),
		SMTPServer:      env("SMTP_SERVER", f.SMTP.Server),
		SMTPUsername:    env("SMTP_USERNAME", f.SMTP.Username),
		SMTPPassword:    env("SMTP_PASSWORD", f.SMTP.Password),
		FromEmail:       env("FROM_EMAIL", f.SMTP.FromEmail),
		FromName:        env("FROM_NAME", orDefault(f.SMTP.FromName, "Product Manager")),
		CasbinModelPath: env("CASBIN_MODEL_PATH", f.Casbin.ModelPath),
	}

	if len(cfg.JWTSecretKey) < MinJWTSecretLength {
		return nil, ErrWeakJWTSecret
	}

	port, err := envInt("APP_PORT", orDefaultInt(f.App.Port, 8080))
	if err != nil {
		return nil, err
	}
	cfg.Port = strconv.Itoa(port)

	if cfg.RedisDB, err = envInt("REDIS_DB", f.Redis.DB); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", orDefaultInt(f.SMTP.Port, 587)); err != nil {
		return nil, err
	}

	if cfg.AccessTTL, err = envDuration("ACCESS_TOKEN_TTL", orDefault(f.JWT.AccessTTL, "1h")); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = envDuration("REFRESH_TOKEN_TTL", orDefault(f.JWT.RefreshTTL, "168h")); err != nil {
		return nil, err
	}
	if cfg.EmailConfirmationTTL, err = envDuration("EMAIL_TOKEN_TTL", orDefault(f.Tokens.EmailConfirmationTTL, "24h")); err != nil {
		return nil, err
	}
	if cfg.PasswordResetTTL, err = envDuration("RESET_TOKEN_TTL", orDefault(f.Tokens.PasswordResetTTL, "1h")); err != nil {
		return nil, err
	}
	if cfg.SMTPTimeout, err = envDuration("SMTP_TIMEOUT", orDefault(f.SMTP.Timeout, "20s")); err != nil {
		return nil, err
	}

	if cfg.DSN, err = buildDSN(f.Database); err != nil {
		return nil, err
	}

	return cfg, nil
}

func buildDSN(db DatabaseConfig) (string, error) {
	if dsn := env("DB_DSN", db.DSN); dsn != "" {
		return dsn, nil
	}
	port, err := envInt("DB_PORT", orDefaultInt(db.Port, 5432))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		env("DB_HOST", orDefault(db.Host, "localhost")),
		port,
		env("DB_USER", orDefault(db.User, "postgres")),
		env("DB_PASSWORD", db.Password),
		env("DB_NAME", orDefault(db.Name, "productmanager")),
		env("DB_SSLMODE", orDefault(db.SSLMode, "disable")),
	), nil
}

// loadConfigFile returns an empty ConfigFile when path does not exist
func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ConfigFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
