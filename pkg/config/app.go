package config

import (
	"strings"
	"time"
)

type AppConfig struct {
	Env          string `envconfig:"SELLERBAZAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"SELLERBAZAAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SELLERBAZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SELLERBAZAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// JWTConfig verifies access tokens issued by the managed auth provider.
type JWTConfig struct {
	Secret   string        `envconfig:"SELLERBAZAAR_JWT_SECRET" required:"true"`
	Issuer   string        `envconfig:"SELLERBAZAAR_JWT_ISSUER"`
	Audience string        `envconfig:"SELLERBAZAAR_JWT_AUDIENCE" default:"authenticated"`
	Leeway   time.Duration `envconfig:"SELLERBAZAAR_JWT_LEEWAY" default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SELLERBAZAAR_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	// MaxAge is how long browsers may cache a preflight answer, in seconds.
	MaxAge int `envconfig:"SELLERBAZAAR_CORS_MAX_AGE" default:"300"`
}

type FeatureFlagsConfig struct {
	// AutoMigrate applies pending migrations at boot, dev only.
	AutoMigrate bool `envconfig:"SELLERBAZAAR_AUTO_MIGRATE" default:"false"`
}
