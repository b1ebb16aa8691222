package config

import (
	"os"
	"strconv"
	"strings"
)

// MaxPageSize caps the limit on any paginated query.
const MaxPageSize = 100

type Config struct {
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	AdminPassword   string
	TaxRate         float64
	RabbitMQURL     string
	OrderExchange   string
	OrderQueue      string
	DeadLetterQueue string
	DelayExchange   string
	MaxPriority     int
	StatusAdvanceMS int
	RedisAddr       string
	ListenAddr      string
	Environment     string
}

func LoadConfig() *Config {
	return &Config{
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "tindibandi"),
		JWTSecret:       getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "MY_SUPER_SECRET"),
		AdminPassword:   getEnvFromFile("ADMIN_PASSWORD_FILE", "ADMIN_PASSWORD", "admin123"),
		TaxRate:         getEnvFloat("TAX_RATE", 0.08),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		OrderExchange:   getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue: getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		DelayExchange:   getEnv("DELAY_EXCHANGE", "delay_exchange"),
		MaxPriority:     10,
		StatusAdvanceMS: getEnvInt("STATUS_ADVANCE_MS", 5000),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		Environment:     getEnv("APP_ENV", "development"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFromFile supports docker secrets mounted as files.
func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
