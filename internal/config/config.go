package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDSN           string        `yaml:"db_dsn" validate:"required"`
	Environment     string        `yaml:"env" validate:"oneof=development production test"`
	LogLevel        string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HTTPAddr        string        `yaml:"http_addr" validate:"required"`
	TelegramToken   string        `yaml:"telegram_token"`
	RecurrenceWeeks int           `yaml:"recurrence_weeks" validate:"min=1,max=520"`
	MinSlotDuration int           `yaml:"min_slot_duration" validate:"min=1"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

func defaults() Config {
	return Config{
		Environment:     "development",
		HTTPAddr:        ":8080",
		RecurrenceWeeks: 52,
		MinSlotDuration: 5,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл из CONFIG_PATH,
// затем переменные окружения (в том числе из .env).
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load(".env")

	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DBDSN, "DB_DSN")
	setString(&cfg.Environment, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")

	if err := setInt(&cfg.RecurrenceWeeks, "RECURRENCE_WEEKS"); err != nil {
		return err
	}
	if err := setInt(&cfg.MinSlotDuration, "MIN_SLOT_DURATION"); err != nil {
		return err
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// BotEnabled бот запускается только при заданном токене
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}
