package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	JWTSecret  string `env:"JWT_SECRET,  default=digital-library-secret-change-in-production"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=http://localhost:5173"`

	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=digital_library"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host      string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port      int    `env:"SMTP_PORT, default=587"`
	User      string `env:"SMTP_USER"`
	Pass      string `env:"SMTP_PASS"`
	FromEmail string `env:"FROM_EMAIL"`
	FromName  string `env:"FROM_NAME, default=Digital Library"`
}

type StorageConfig struct {
	// Backend selects the blob store: "disk" or "minio".
	Backend string `env:"STORAGE_BACKEND, default=disk"`
	Dir     string `env:"UPLOADS_DIR,     default=uploads"`

	Minio MinioConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY, default=minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY, default=minioadmin"`
	Bucket    string `env:"MINIO_BUCKET,     default=library-uploads"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

type RateLimitConfig struct {
	Enabled  bool          `env:"RATE_LIMIT_ENABLED,  default=false"`
	Requests int64         `env:"RATE_LIMIT_REQUESTS, default=200"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
