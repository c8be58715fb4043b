package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

// Config is the full runtime configuration shared by the api, cron-worker and
// migrate binaries. Every field is read from a SELLERBAZAAR_* variable.
type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	Idempotency  IdempotencyConfig
	Cron         CronConfig
}

// Load reads the environment and checks cross-field rules. All rule
// violations are reported together.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	return multierr.Combine(
		c.DB.resolveDSN(),
		c.Checkout.validate(),
		c.Idempotency.validate(),
		c.Cron.validate(),
	)
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"SELLERBAZAAR_CRON_INTERVAL" default:"15m"`
	OrphanOrderGrace time.Duration `envconfig:"SELLERBAZAAR_CRON_ORPHAN_ORDER_GRACE" default:"30m"`
	MetricsAddr      string        `envconfig:"SELLERBAZAAR_CRON_METRICS_ADDR" default:":9091"`
}

func (c CronConfig) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%s must be positive", EnvCronInterval)
	}
	return nil
}
