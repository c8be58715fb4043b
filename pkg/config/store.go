package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DBConfig takes either a full DSN or its parts. Parts are only read when
// DSN is empty.
type DBConfig struct {
	DSN    string `envconfig:"SELLERBAZAAR_DB_DSN"`
	Driver string `envconfig:"SELLERBAZAAR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SELLERBAZAAR_DB_HOST"`
	Port     int    `envconfig:"SELLERBAZAAR_DB_PORT" default:"5432"`
	User     string `envconfig:"SELLERBAZAAR_DB_USER"`
	Password string `envconfig:"SELLERBAZAAR_DB_PASSWORD"`
	Name     string `envconfig:"SELLERBAZAAR_DB_NAME"`
	SSLMode  string `envconfig:"SELLERBAZAAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SELLERBAZAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SELLERBAZAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SELLERBAZAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SELLERBAZAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"SELLERBAZAAR_DB_SLOW_QUERY" default:"250ms"`
}

// resolveDSN fills DSN from the individual parts when it was not given.
func (db *DBConfig) resolveDSN() error {
	if db.DSN != "" {
		return nil
	}
	var missing []string
	for env, v := range map[string]string{EnvDBHost: db.Host, EnvDBUser: db.User, EnvDBName: db.Name} {
		if v == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("set %s or all of %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.User(db.User),
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		dsn.User = url.UserPassword(db.User, db.Password)
	}
	if db.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	db.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SELLERBAZAAR_REDIS_URL"`
	Address      string        `envconfig:"SELLERBAZAAR_REDIS_ADDR"`
	Password     string        `envconfig:"SELLERBAZAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SELLERBAZAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SELLERBAZAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SELLERBAZAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SELLERBAZAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SELLERBAZAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SELLERBAZAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
	// Namespace prefixes every key, letting environments share an instance.
	Namespace string `envconfig:"SELLERBAZAAR_REDIS_NAMESPACE" default:"sb"`
}
