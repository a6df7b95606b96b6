package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB  int           `mapstructure:"REDIS_DRAFT_DB"`
	RedisQueueDB  int           `mapstructure:"REDIS_QUEUE_DB"`
	DraftTTL      time.Duration `mapstructure:"DRAFT_TTL"`

	// MongoDB holds submitted quotes for the intake endpoint.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Wizard behaviour.
	SubmissionURL     string        `mapstructure:"SUBMISSION_URL"`
	SubmissionTimeout time.Duration `mapstructure:"SUBMISSION_TIMEOUT"`
	AutosaveInterval  time.Duration `mapstructure:"AUTOSAVE_INTERVAL"`
	Currency          string        `mapstructure:"CURRENCY"`
	FollowUpDelay     time.Duration `mapstructure:"FOLLOW_UP_DELAY"`
	DraftDir          string        `mapstructure:"DRAFT_DIR"`
}

var AppConfig Config

func LoadConfig() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DRAFT_TTL", "720h")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "quoteforge")
	viper.SetDefault("SUBMISSION_URL", "http://localhost:8080/api/quotes/intake")
	viper.SetDefault("SUBMISSION_TIMEOUT", "10s")
	viper.SetDefault("AUTOSAVE_INTERVAL", "30s")
	viper.SetDefault("CURRENCY", "USD")
	viper.SetDefault("FOLLOW_UP_DELAY", "48h")
	viper.SetDefault("DRAFT_DIR", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
