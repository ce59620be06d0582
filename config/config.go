package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds all runtime configuration, populated from the environment.
type App struct {
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Redis (token revocation list)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	// Auth
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// Network
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":5000"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	// Abuse control: credential endpoints per source IP
	AuthRatePerMin int `envconfig:"AUTH_RATE_PER_MIN" default:"10"`
	// Logging
	LogFile string `envconfig:"LOG_FILE" default:""`
}

// Load populates App from the environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
