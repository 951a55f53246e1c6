package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Квоты по умолчанию для новых пользователей
	DefaultStorageLimitMB int64 `env:"DEFAULT_STORAGE_LIMIT_MB"`
	DefaultMaxFileSizeMB  int64 `env:"DEFAULT_MAX_FILE_MB"`

	// Объектное хранилище (S3-совместимое). Пустой bucket —
	// сервер работает на in-memory хранилище (dev/тесты).
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3KeyPrefix string `env:"S3_KEY_PREFIX"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// Почта для уведомлений о шаринге (best-effort)
	SMTPAddr string `env:"SMTP_ADDR"`
	SMTPFrom string `env:"SMTP_FROM"`

	ServerURL string `env:"-"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS")
	flag.Int64Var(&cfg.DefaultStorageLimitMB, "storage-limit-mb", cfg.DefaultStorageLimitMB, "квота хранилища по умолчанию, МБ")
	flag.Int64Var(&cfg.DefaultMaxFileSizeMB, "max-file-mb", cfg.DefaultMaxFileSizeMB, "максимальный размер файла по умолчанию, МБ")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "имя S3 bucket")
	flag.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "регион S3")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "endpoint S3-совместимого хранилища")
	flag.StringVar(&cfg.SMTPAddr, "smtp-addr", cfg.SMTPAddr, "адрес SMTP-сервера host:port")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DefaultStorageLimitMB <= 0 {
		cfg.DefaultStorageLimitMB = 500
	}
	if cfg.DefaultMaxFileSizeMB <= 0 {
		cfg.DefaultMaxFileSizeMB = 50
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	return cfg
}

// DefaultStorageLimit возвращает квоту по умолчанию в байтах.
func (c *Config) DefaultStorageLimit() int64 {
	return c.DefaultStorageLimitMB * 1024 * 1024
}

// DefaultMaxFileSize возвращает максимальный размер файла в байтах.
func (c *Config) DefaultMaxFileSize() int64 {
	return c.DefaultMaxFileSizeMB * 1024 * 1024
}
