package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	LogLevel  string
	LogFormat string

	LayoutDBPath   string
	MigrationsPath string
	FloorplanURL   string
	CellPx         float64
}

// Load загружает конфигурацию из переменных окружения.
// Файл .env (если есть) подгружается заранее и не перекрывает уже заданные переменные.
// defaultPort у каждого сервиса свой и используется, когда PORT не задан.
func Load(defaultPort string) *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", defaultPort),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LayoutDBPath:   getEnv("LAYOUT_DB_PATH", "data/db/layouts.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_layouts.sql"),
		FloorplanURL:   getEnv("FLOORPLAN_URL", "http://localhost:3003"),
		CellPx:         getEnvAsFloat("CELL_PX", 60),
	}
}

// IsDevelopment для выбора формата логов и прочих dev-настроек.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}
