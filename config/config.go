package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL      string
	MongoURL         string
	DBType           string
	Port             string
	MatchRadiusMiles float64
	DefaultPageLimit int64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		PostgresURL:      os.Getenv("POSTGRES_URL"),
		MongoURL:         os.Getenv("MONGO_URL"),
		DBType:           os.Getenv("DB_TYPE"),
		Port:             os.Getenv("PORT"),
		MatchRadiusMiles: envFloat("MATCH_RADIUS_MILES", 100),
		DefaultPageLimit: envInt("DEFAULT_PAGE_LIMIT", 10),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envInt(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}
