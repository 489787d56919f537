package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// TenantID: тенант, в рамках которого транспорт обрабатывает входящие события.
	TenantID int64
	// AdminIDs: внешние идентификаторы администраторов (ADMIN_IDS="123,456").
	AdminIDs []string
	// CompanyInfo: текст для кнопки «О компании».
	CompanyInfo string

	Telegram struct {
		BotToken      string
		APIURL        string
		WebhookSecret string
	}

	// KafkaBrokers / KafkaTopicTicket: если заданы, события тикетов уходят в Kafka.
	KafkaBrokers     []string
	KafkaTopicTicket string

	// RedisAddr: если задан, привязки операторов к тикетам хранятся в Redis, иначе в БД.
	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	DB struct {
		Driver   string
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
		Path     string
	}
}

const defaultCompanyInfo = "About us: 24/7 technical support. Our operators are always online."

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:          getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:         firstEnv("APP_PORT", "HTTP_PORT", "8098"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AdminIDs:         ParseList(getEnv("ADMIN_IDS", "")),
		CompanyInfo:      getEnv("COMPANY_INFO", defaultCompanyInfo),
		KafkaBrokers:     ParseList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTicket: getEnv("KAFKA_TOPIC_TICKET", "support.tickets"),
	}
	tenant, err := strconv.ParseInt(getEnv("TENANT_ID", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: TENANT_ID: %w", err)
	}
	cfg.TenantID = tenant

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")
	cfg.Telegram.WebhookSecret = getEnv("TELEGRAM_WEBHOOK_SECRET", "")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config: REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB

	cfg.DB.Driver = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "support_router")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.Path = getEnv("DB_PATH", "support_router.db")
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "mysql":
		if c.DB.Host == "" || c.DB.Database == "" {
			return errors.New("config: DB_HOST and DB_DATABASE are required")
		}
	case "sqlite":
		if c.DB.Path == "" {
			return errors.New("config: DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.TenantID <= 0 {
		return errors.New("config: TENANT_ID must be positive")
	}
	if c.AppEnv == "production" {
		if c.DB.Driver != "sqlite" && c.DB.Password == "" {
			return errors.New("config: in production DB_PASSWORD is required")
		}
		if c.Telegram.BotToken == "" {
			return errors.New("config: in production TELEGRAM_BOT_TOKEN is required")
		}
	}
	return nil
}

// DSN возвращает строку подключения для gorm в зависимости от DB_DRIVER.
func (c *Config) DSN() string {
	switch c.DB.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Database)
	case "sqlite":
		return c.DB.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

// DatabaseURL: URL для goose (только postgres).
func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseList разбивает строку "a, b,c" на непустые элементы.
func ParseList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
