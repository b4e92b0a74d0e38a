package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBPath     string
	LogLevel   string
	BoardTitle string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Debug("no .env file found, using system environment variables")
	}

	return &Config{
		DBPath:     getEnv("KANBAN_DB_PATH", "kanban.db"),
		LogLevel:   getEnv("KANBAN_LOG_LEVEL", "info"),
		BoardTitle: getEnv("KANBAN_BOARD_TITLE", "My board"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
