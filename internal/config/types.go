package config

import "time"

// AppConfig holds runtime startup configuration. It is built once by Load
// and passed to every collaborator that needs it.
type AppConfig struct {
	Port           int
	Env            string
	Timezone       string
	AllowedOrigins []string
	Paths          RuntimePathsConfig
	Store          StoreConfig
	Identity       IdentityConfig
	Redis          RedisConfig
	Storage        StorageConfig
	Mail           MailConfig
	Search         SearchConfig
}

// StoreConfig points at the hosted relational store and its HTTP gateway.
type StoreConfig struct {
	URL              string
	AnonKey          string
	ServiceRoleKey   string
	DSN              string
	SearchFunction   string
	SearchMatchCount int
}

// IdentityConfig describes the hosted identity provider.
type IdentityConfig struct {
	APIURL        string
	SecretKey     string
	JWTSecret     string
	SessionCookie string
	SignInURL     string
	SignUpURL     string
	AccountsURL   string
}

type RedisConfig struct {
	URL string
}

// StorageConfig is the S3-compatible bucket holding original uploads.
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	PresignTTL      time.Duration
}

type MailConfig struct {
	Enable         bool
	Host           string
	Port           int
	User           string
	Pass           string
	From           string
	ReplyTo        string
	LeadRecipients []string
}

type SearchConfig struct {
	Debounce time.Duration
	// Remote disables the store RPC when false; queries then run as LIKE
	// scans against the chunk table.
	Remote bool
}

type RuntimePathsConfig struct {
	Logs string
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"`
	Timezone       string            `yaml:"timezone"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	Paths          rawPathsConfig    `yaml:"paths"`
	LogDir         string            `yaml:"log_dir"`
	Store          rawStoreConfig    `yaml:"store"`
	Identity       rawIdentityConfig `yaml:"identity"`
	Redis          rawRedisConfig    `yaml:"redis"`
	RedisURL       string            `yaml:"redis_url"`
	Storage        rawStorageConfig  `yaml:"storage"`
	Mail           rawMailConfig     `yaml:"mail"`
	Search         rawSearchConfig   `yaml:"search"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawStoreConfig struct {
	URL              string `yaml:"url"`
	AnonKey          string `yaml:"anon_key"`
	ServiceRoleKey   string `yaml:"service_role_key"`
	DSN              string `yaml:"dsn"`
	DatabaseURL      string `yaml:"database_url"`
	SearchFunction   string `yaml:"search_function"`
	SearchMatchCount int    `yaml:"search_match_count"`
}

type rawIdentityConfig struct {
	APIURL        string `yaml:"api_url"`
	SecretKey     string `yaml:"secret_key"`
	JWTSecret     string `yaml:"jwt_secret"`
	SessionCookie string `yaml:"session_cookie"`
	SignInURL     string `yaml:"sign_in_url"`
	SignUpURL     string `yaml:"sign_up_url"`
	AccountsURL   string `yaml:"accounts_url"`
}

type rawRedisConfig struct {
	URL string `yaml:"url"`
}

type rawStorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       *bool  `yaml:"path_style"`
	PresignTTL      string `yaml:"presign_ttl"`
}

type rawMailConfig struct {
	Enable         *bool    `yaml:"enable"`
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	User           string   `yaml:"user"`
	Pass           string   `yaml:"pass"`
	From           string   `yaml:"from"`
	ReplyTo        string   `yaml:"reply_to"`
	LeadRecipients []string `yaml:"lead_recipients"`
}

type rawSearchConfig struct {
	Debounce string `yaml:"debounce"`
	Remote   *bool  `yaml:"remote"`
}
