package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StoreBackend    string `env:"STORE_BACKEND" envDefault:"memory"`
	MongoURI        string `env:"MONGO_URI"`
	DBName          string `env:"DB_NAME" envDefault:"noirstore"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"kv"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix       string `env:"KEY_PREFIX" envDefault:"noir_store_"`

	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@noir.com"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	SimulatedLatency  time.Duration `env:"SIMULATED_LATENCY" envDefault:"300ms"`
	LowStockThreshold int           `env:"LOW_STOCK_THRESHOLD" envDefault:"5"`
	ActivityLimit     int           `env:"ACTIVITY_LIMIT" envDefault:"100"`
	TaxRate           float64       `env:"TAX_RATE" envDefault:"0.08"`
	SeedOnStart       bool          `env:"SEED_ON_START" envDefault:"true"`
	UploadDir         string        `env:"UPLOAD_DIR" envDefault:"./public/uploads"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
	GinMode   string `env:"GIN_MODE" envDefault:"debug"`
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))

	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL must not be empty")
	}
	if len(c.AdminPassword) < 6 {
		return errors.New("ADMIN_PASSWORD must be at least 6 characters")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SimulatedLatency < 0 {
		c.SimulatedLatency = 0
	}
	if c.ActivityLimit < 1 {
		c.ActivityLimit = 100
	}
	if c.TaxRate < 0 {
		return errors.New("TAX_RATE must be zero or greater")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generate JWT secret: %w", err)
		}
		log.Println("JWT_SECRET not set, using a random secret; sessions will not survive restarts")
		c.JWTSecret = secret
	}
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
