package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string
	Port          string
	AccessCode    string
	DataDir       string
	DBDSN         string // optional: remote Postgres replication
	NatsURL       string // optional: cross-device change broadcast
	TelegramToken string // optional: student notices over Telegram
}

func Load() (*Config, error) {
	// Load .env when present; plain env vars otherwise.
	if err := godotenv.Load(".env"); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:   os.Getenv("ENV"),
		Port:          os.Getenv("PORT"),
		AccessCode:    os.Getenv("ACCESS_CODE"),
		DataDir:       os.Getenv("DATA_DIR"),
		DBDSN:         os.Getenv("DB_DSN"),
		NatsURL:       os.Getenv("NATS_URL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.AccessCode == "" {
		return nil, fmt.Errorf("ACCESS_CODE is required but not set")
	}

	return cfg, nil
}
