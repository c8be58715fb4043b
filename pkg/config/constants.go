package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "SELLERBAZAAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Variable names referenced from validation messages and tests.
const (
	EnvAppEnv = "SELLERBAZAAR_APP_ENV"
	EnvPort   = "SELLERBAZAAR_APP_PORT"

	EnvDBDSN  = "SELLERBAZAAR_DB_DSN"
	EnvDBHost = "SELLERBAZAAR_DB_HOST"
	EnvDBUser = "SELLERBAZAAR_DB_USER"
	EnvDBName = "SELLERBAZAAR_DB_NAME"

	EnvRedisURL  = "SELLERBAZAAR_REDIS_URL"
	EnvJWTSecret = "SELLERBAZAAR_JWT_SECRET"

	EnvCheckoutPaymentPolicy  = "SELLERBAZAAR_CHECKOUT_PAYMENT_POLICY"
	EnvCheckoutProfileTimeout = "SELLERBAZAAR_CHECKOUT_PROFILE_FETCH_TIMEOUT"
	EnvCheckoutSessionTTL     = "SELLERBAZAAR_CHECKOUT_SESSION_TTL"
	EnvIdempotencyInFlight    = "SELLERBAZAAR_IDEMPOTENCY_IN_FLIGHT"
	EnvCronInterval           = "SELLERBAZAAR_CRON_INTERVAL"
)
