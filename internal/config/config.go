package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pdminh/imagebatch/internal/models"
)

type Config struct {
	Server   ServerConfig
	Encoding EncodingConfig
	Batch    BatchConfig
	Intake   IntakeConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Supabase SupabaseConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EncodingConfig is the raw form of the process-wide EncodingPolicy.
type EncodingConfig struct {
	MaxDimension int
	TargetFormat string
	Quality      float64
}

type BatchConfig struct {
	Workers     int
	ItemTimeout time.Duration
}

type IntakeConfig struct {
	MaxFileSize int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type SupabaseConfig struct {
	URL    string
	Key    string
	Bucket string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Encoding: EncodingConfig{
			MaxDimension: getEnvAsInt("MAX_DIMENSION", models.DefaultMaxDimension),
			TargetFormat: getEnv("TARGET_FORMAT", string(models.FormatWebP)),
			Quality:      getEnvAsFloat("QUALITY", models.DefaultQuality),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("BATCH_WORKERS", 0), // 0 = NumCPU
			ItemTimeout: getDuration("ITEM_TIMEOUT", 30*time.Second),
		},
		Intake: IntakeConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10MB
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getDuration("CACHE_DURATION", 24*time.Hour),
		},
		RabbitMQ: RabbitMQConfig{
			URL: getEnv("RABBITMQ_URL", ""),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			Key:    getEnv("SUPABASE_KEY", ""),
			Bucket: getEnv("SUPABASE_BUCKET", ""),
		},
	}

	return cfg, nil
}

// Policy materializes the configured encoding policy.
func (c *Config) Policy() (models.EncodingPolicy, error) {
	format, err := models.ParseFormat(c.Encoding.TargetFormat)
	if err != nil {
		return models.EncodingPolicy{}, err
	}
	policy := models.EncodingPolicy{
		MaxDimension: c.Encoding.MaxDimension,
		TargetFormat: format,
		Quality:      c.Encoding.Quality,
	}
	if err := policy.Validate(); err != nil {
		return models.EncodingPolicy{}, err
	}
	return policy, nil
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

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
