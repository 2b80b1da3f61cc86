package config

const (
	EnvPrefix = "SPOTLISTS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "SPOTLISTS_APP_ENV"
	EnvAppPort  = "SPOTLISTS_APP_PORT"
	EnvDBDSN    = "SPOTLISTS_DB_DSN"
	EnvDBHost   = "SPOTLISTS_DB_HOST"
	EnvDBUser   = "SPOTLISTS_DB_USER"
	EnvDBName   = "SPOTLISTS_DB_NAME"
	EnvRedisURL = "SPOTLISTS_REDIS_URL"

	EnvIDTokenSecret = "SPOTLISTS_ID_TOKEN_SECRET"
	EnvIDTokenIssuer = "SPOTLISTS_ID_TOKEN_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
