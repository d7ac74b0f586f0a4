package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultEnvFile is loaded (when present) before environment overrides apply.
	DefaultEnvFile = ".env"

	defaultPort             = 3000
	defaultEnv              = "development"
	defaultSearchFunction   = "search_document_chunks"
	defaultSearchMatchCount = 10
	defaultSearchDebounce   = 500 * time.Millisecond
	defaultSessionCookie    = "__session"
	defaultSignInPath       = "/sign-in"
	defaultSignUpPath       = "/sign-up"
	defaultStorageRegion    = "us-east-1"
	defaultPresignTTL       = 15 * time.Minute
	defaultMailPort         = 587
	defaultLogsSubdir       = "logs"
)

// Environment variables read at process start. Each key accepts the
// NEXT_PUBLIC_ prefixed spelling used by the web frontend as an alias.
const (
	EnvStoreURL            = "BLOCKS_SUPABASE_URL"
	EnvStoreAnonKey        = "BLOCKS_SUPABASE_ANON_KEY"
	EnvStoreServiceRoleKey = "BLOCKS_SUPABASE_SERVICE_ROLE_KEY"
	EnvStoreDSN            = "BLOCKS_SUPABASE_DB_URL"
	EnvIdentityAPIURL      = "IDENTITY_API_URL"
	EnvIdentitySecretKey   = "IDENTITY_SECRET_KEY"
	EnvIdentityJWTSecret   = "IDENTITY_JWT_SECRET"
	EnvIdentityAccountsURL = "IDENTITY_ACCOUNTS_URL"
	EnvRedisURL            = "REDIS_URL"
	EnvPort                = "PORT"
	EnvAppEnv              = "APP_ENV"

	publicEnvPrefix = "NEXT_PUBLIC_"
)
