// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Inventory InventoryConfig
	Export    ExportConfig
}

type ServerConfig struct {
	Port           string
	OpsPort        string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Driver selects the store backend: "postgres" or "memory" (dev only).
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type InventoryConfig struct {
	// ReorderThresholdDays is the projected-days cutoff below which a
	// replenishment order is raised automatically.
	ReorderThresholdDays float64
	DoseForms            []string
}

type ExportConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_OPS_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_DRIVER", "postgres")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "farmio")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("REORDER_THRESHOLD_DAYS", 7.0)
		viper.SetDefault("DOSE_FORMS", []string{"tablet", "capsule", "vial", "syrup", "cream"})
		viper.SetDefault("EXPORT_ENABLED", false)
		viper.SetDefault("EXPORT_S3_ENDPOINT", "")
		viper.SetDefault("EXPORT_S3_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_S3_SECRET_KEY", "")
		viper.SetDefault("EXPORT_S3_BUCKET", "")
		viper.SetDefault("EXPORT_S3_REGION", "us-east-1")
		viper.SetDefault("EXPORT_S3_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				OpsPort:        viper.GetString("SERVER_OPS_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Driver:   viper.GetString("DB_DRIVER"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Inventory: InventoryConfig{
				ReorderThresholdDays: viper.GetFloat64("REORDER_THRESHOLD_DAYS"),
				DoseForms:            viper.GetStringSlice("DOSE_FORMS"),
			},
			Export: ExportConfig{
				Enabled:   viper.GetBool("EXPORT_ENABLED"),
				Endpoint:  viper.GetString("EXPORT_S3_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_S3_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_S3_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_S3_BUCKET"),
				Region:    viper.GetString("EXPORT_S3_REGION"),
				UseSSL:    viper.GetBool("EXPORT_S3_USE_SSL"),
			},
		}
	})

	return instance
}
