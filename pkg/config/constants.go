package config

const (
	EnvPrefix = "LONDONSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv            = "LONDONSHOP_APP_ENV"
	EnvPort              = "LONDONSHOP_APP_PORT"
	EnvDBDSN             = "LONDONSHOP_DB_DSN"
	EnvDBDriver          = "LONDONSHOP_DB_DRIVER"
	EnvRedisURL          = "LONDONSHOP_REDIS_URL"
	EnvAdminPassword     = "LONDONSHOP_ADMIN_PASSWORD"
	EnvAdminPasswordHash = "LONDONSHOP_ADMIN_PASSWORD_HASH"
	EnvAdminJWTSecret    = "LONDONSHOP_ADMIN_JWT_SECRET"
	EnvAdminSessionTTL   = "LONDONSHOP_ADMIN_SESSION_TTL"
	EnvCartIdleTTL       = "LONDONSHOP_CART_IDLE_TTL"
)
