package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingStoreURL            = errors.New("missing store url (" + EnvStoreURL + ")")
	ErrMissingStoreServiceRoleKey = errors.New("missing store service role key (" + EnvStoreServiceRoleKey + ")")
	ErrMissingStoreDSN            = errors.New("missing store dsn (" + EnvStoreDSN + ")")
)

// Load reads the optional YAML file, applies the optional .env file and the
// process environment on top, and validates the result. A missing file is
// only tolerated for the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw, err := decodeRaw(content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		if err := applyRawAppConfig(&cfg, raw); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration error that makes the process
// unable to serve. Callers treat any error as fatal.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Store.URL) == "" {
		return ErrMissingStoreURL
	}
	if strings.TrimSpace(c.Store.ServiceRoleKey) == "" {
		return ErrMissingStoreServiceRoleKey
	}
	if strings.TrimSpace(c.Store.DSN) == "" {
		return ErrMissingStoreDSN
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("invalid search.debounce %s", c.Search.Debounce)
	}
	if c.Mail.Enable && len(c.Mail.LeadRecipients) == 0 {
		return errors.New("mail is enabled but mail.lead_recipients is empty")
	}
	return nil
}

func decodeRaw(content []byte) (rawAppConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return raw, err
	}
	return raw, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Store: StoreConfig{
			SearchFunction:   defaultSearchFunction,
			SearchMatchCount: defaultSearchMatchCount,
		},
		Identity: IdentityConfig{
			SessionCookie: defaultSessionCookie,
		},
		Storage: StorageConfig{
			Region:     defaultStorageRegion,
			PresignTTL: defaultPresignTTL,
		},
		Mail: MailConfig{
			Port: defaultMailPort,
		},
		Search: SearchConfig{
			Debounce: defaultSearchDebounce,
			Remote:   true,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeList(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	store := &cfg.Store
	setString(&store.URL, raw.Store.URL)
	setString(&store.AnonKey, raw.Store.AnonKey)
	setString(&store.ServiceRoleKey, raw.Store.ServiceRoleKey)
	setString(&store.DSN, raw.Store.DSN)
	setString(&store.DSN, raw.Store.DatabaseURL)
	setString(&store.SearchFunction, raw.Store.SearchFunction)
	if raw.Store.SearchMatchCount > 0 {
		store.SearchMatchCount = raw.Store.SearchMatchCount
	}

	id := &cfg.Identity
	setString(&id.APIURL, raw.Identity.APIURL)
	setString(&id.SecretKey, raw.Identity.SecretKey)
	setString(&id.JWTSecret, raw.Identity.JWTSecret)
	setString(&id.SessionCookie, raw.Identity.SessionCookie)
	setString(&id.SignInURL, raw.Identity.SignInURL)
	setString(&id.SignUpURL, raw.Identity.SignUpURL)
	setString(&id.AccountsURL, raw.Identity.AccountsURL)

	setString(&cfg.Redis.URL, raw.Redis.URL)
	setString(&cfg.Redis.URL, raw.RedisURL)

	st := &cfg.Storage
	setString(&st.Endpoint, raw.Storage.Endpoint)
	setString(&st.Region, raw.Storage.Region)
	setString(&st.Bucket, raw.Storage.Bucket)
	setString(&st.AccessKeyID, raw.Storage.AccessKeyID)
	setString(&st.SecretAccessKey, raw.Storage.SecretAccessKey)
	if raw.Storage.PathStyle != nil {
		st.PathStyle = *raw.Storage.PathStyle
	}
	if v := strings.TrimSpace(raw.Storage.PresignTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid storage.presign_ttl %q: %w", v, err)
		}
		st.PresignTTL = d
	}

	mail := &cfg.Mail
	if raw.Mail.Enable != nil {
		mail.Enable = *raw.Mail.Enable
	}
	setString(&mail.Host, raw.Mail.Host)
	if raw.Mail.Port != 0 {
		mail.Port = raw.Mail.Port
	}
	setString(&mail.User, raw.Mail.User)
	setString(&mail.Pass, raw.Mail.Pass)
	setString(&mail.From, raw.Mail.From)
	setString(&mail.ReplyTo, raw.Mail.ReplyTo)
	if raw.Mail.LeadRecipients != nil {
		mail.LeadRecipients = normalizeList(raw.Mail.LeadRecipients)
	}

	if v := strings.TrimSpace(raw.Search.Debounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid search.debounce %q: %w", v, err)
		}
		cfg.Search.Debounce = d
	}
	if raw.Search.Remote != nil {
		cfg.Search.Remote = *raw.Search.Remote
	}
	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

// IsDev reports whether the process runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsSubdir)
}

// SignInURL returns the sign-in page the gate redirects to.
func (c *AppConfig) SignInURL() string {
	if c.Identity.SignInURL != "" {
		return c.Identity.SignInURL
	}
	return defaultSignInPath
}

// SignUpURL returns the sign-up page linked from the landing page.
func (c *AppConfig) SignUpURL() string {
	if c.Identity.SignUpURL != "" {
		return c.Identity.SignUpURL
	}
	return defaultSignUpPath
}

// HostedPage returns the identity provider's hosted page for flow
// ("sign-in" or "sign-up"), carrying returnURL as redirect_url. It is
// empty when no accounts URL is configured.
func (c *AppConfig) HostedPage(flow, returnURL string) string {
	if c.Identity.AccountsURL == "" {
		return ""
	}
	u := c.Identity.AccountsURL + "/" + flow
	if returnURL != "" {
		u += "?redirect_url=" + url.QueryEscape(returnURL)
	}
	return u
}

// StorageEnabled reports whether original uploads can be presigned.
func (c *AppConfig) StorageEnabled() bool {
	s := c.Storage
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}
