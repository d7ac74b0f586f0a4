package config

import (
	"fmt"
	"strconv"
	"strings"
)

// lookupFunc matches os.LookupEnv so tests can feed a fixed environment.
type lookupFunc func(key string) (string, bool)

// applyEnv overlays environment variables on cfg. Environment wins over the
// YAML file.
func applyEnv(cfg *AppConfig, lookup lookupFunc) error {
	get := func(key string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := lookup(publicEnvPrefix + key); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	setString(&cfg.Store.URL, get(EnvStoreURL))
	setString(&cfg.Store.AnonKey, get(EnvStoreAnonKey))
	setString(&cfg.Store.ServiceRoleKey, get(EnvStoreServiceRoleKey))
	setString(&cfg.Store.DSN, get(EnvStoreDSN))
	setString(&cfg.Identity.APIURL, get(EnvIdentityAPIURL))
	setString(&cfg.Identity.SecretKey, get(EnvIdentitySecretKey))
	setString(&cfg.Identity.JWTSecret, get(EnvIdentityJWTSecret))
	setString(&cfg.Identity.AccountsURL, get(EnvIdentityAccountsURL))
	setString(&cfg.Redis.URL, get(EnvRedisURL))
	setString(&cfg.Env, get(EnvAppEnv))

	if v := get(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	return nil
}
