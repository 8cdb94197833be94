package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Bot      BotConfig
	App      AppConfig
	API      APIConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Driver  string // "sqlite", "mysql", "postgres"
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
	Path    string // sqlite file
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type BotConfig struct {
	Token      string
	WebhookURL string
	UpdateMode string // "auto", "polling", "webhook"
	OwnerID    int64
}

type AppConfig struct {
	DataDir        string
	TZ             string
	Location       *time.Location
	SupportContact string
	Locale         string
	SessionTTL     time.Duration
	ExpiryScanSpec string
}

type APIConfig struct {
	Key string
}

type LogConfig struct {
	Level string
}

// ErrMissingToken is returned when BOT_TOKEN is not configured.
var ErrMissingToken = errors.New("BOT_TOKEN is required")

func newViper() *viper.Viper {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_CHARSET", "utf8mb4")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BOT_UPDATE_MODE", "auto")
	v.SetDefault("OWNER_ID", 0)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("TZ", "UTC")
	v.SetDefault("LOCALE", "es")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("EXPIRY_SCAN_SPEC", "0 0 * * * *")
	return v
}

func databaseConfig(v *viper.Viper) (DatabaseConfig, string, error) {
	db := DatabaseConfig{
		Driver:  strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		Host:    v.GetString("DB_HOST"),
		Port:    v.GetString("DB_PORT"),
		Name:    v.GetString("DB_NAME"),
		User:    v.GetString("DB_USER"),
		Pass:    v.GetString("DB_PASS"),
		Charset: v.GetString("DB_CHARSET"),
		Path:    v.GetString("DB_PATH"),
	}
	switch db.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return db, "", fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	dataDir, err := filepath.Abs(v.GetString("DATA_DIR"))
	if err != nil {
		return db, "", fmt.Errorf("invalid DATA_DIR: %w", err)
	}
	if db.Path == "" {
		db.Path = filepath.Join(dataDir, "state.db")
	}
	return db, dataDir, nil
}

// LoadDatabaseOnly reads just the database settings. It does not require BOT_TOKEN.
func LoadDatabaseOnly() (*DatabaseConfig, int64, error) {
	v := newViper()
	db, dataDir, err := databaseConfig(v)
	if err != nil {
		return nil, 0, err
	}
	if db.Driver == "sqlite" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, 0, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &db, v.GetInt64("OWNER_ID"), nil
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	v := newViper()

	dbCfg, dataDir, err := databaseConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			Pass: v.GetString("REDIS_PASS"),
			DB:   v.GetInt("REDIS_DB"),
		},
		Bot: BotConfig{
			Token:      strings.TrimSpace(v.GetString("BOT_TOKEN")),
			WebhookURL: v.GetString("BOT_WEBHOOK_URL"),
			UpdateMode: v.GetString("BOT_UPDATE_MODE"),
			OwnerID:    v.GetInt64("OWNER_ID"),
		},
		App: AppConfig{
			DataDir:        dataDir,
			TZ:             v.GetString("TZ"),
			SupportContact: strings.TrimPrefix(strings.TrimSpace(v.GetString("SUPPORT_CONTACT")), "@"),
			Locale:         strings.ToLower(v.GetString("LOCALE")),
			ExpiryScanSpec: v.GetString("EXPIRY_SCAN_SPEC"),
		},
		API: APIConfig{
			Key: v.GetString("API_KEY"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Bot.Token == "" {
		return nil, ErrMissingToken
	}

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.App.SessionTTL = ttl

	loc, err := time.LoadLocation(cfg.App.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", cfg.App.TZ, err)
	}
	cfg.App.Location = loc

	return cfg, nil
}

// EnsureDataDirs creates the data directory tree.
func (a *AppConfig) EnsureDataDirs() error {
	for _, d := range []string{"", "logs", "invoices", "clients"} {
		if err := os.MkdirAll(filepath.Join(a.DataDir, d), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	return nil
}

// ClientsDir is the parent of every client's private workdir.
func (a *AppConfig) ClientsDir() string {
	return filepath.Join(a.DataDir, "clients")
}

// DSN returns the driver-specific connection string for GORM.
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case "mysql":
		return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			d.Host, d.User, d.Pass, d.Name, d.Port)
	default:
		return d.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
}
