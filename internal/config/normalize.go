package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Store.URL = strings.TrimRight(cfg.Store.URL, "/")
	cfg.Identity.APIURL = strings.TrimRight(cfg.Identity.APIURL, "/")
	cfg.Identity.AccountsURL = strings.TrimRight(cfg.Identity.AccountsURL, "/")
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	if cfg.Identity.SessionCookie == "" {
		cfg.Identity.SessionCookie = defaultSessionCookie
	}
	if cfg.Store.SearchFunction == "" {
		cfg.Store.SearchFunction = defaultSearchFunction
	}
	if cfg.Storage.PresignTTL <= 0 {
		cfg.Storage.PresignTTL = defaultPresignTTL
	}
}

func normalizeList(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}
