package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port         string
	SecretKey    string
	CORSOrigins  []string
	StoreTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		SecretKey:    getenv("SECRET_KEY", "change-me-in-production"),
		CORSOrigins:  strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
		StoreTimeout: 5 * time.Second,
	}
	if raw := os.Getenv("STORE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Println("invalid STORE_TIMEOUT, using default:", err)
		} else {
			cfg.StoreTimeout = d
		}
	}
	return cfg
}

func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_NAME", "debt_ledger"),
			getenv("DB_PORT", "5432"),
		)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	return db
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
