package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultGRPCPort       = 50051
	DefaultHTTPPort       = 8080
	DefaultTimezone       = "UTC"
	DefaultLocale         = "en"
	DefaultLogLevel       = "info"
	DefaultStorageBackend = "memory"
	DefaultStoragePath    = "golfcoach.db"
	DefaultRetention      = 7 * 24 * time.Hour
	DefaultRepoBackend    = "memory"
	DefaultNotionTimeout  = 10 * time.Second
	DefaultFreeDailyLimit = 3
	DefaultMaxUsers       = 20
	DefaultHubInterval    = 5 * time.Second
	DefaultAPIKeyHeader   = "x-api-key"
	DefaultNotionUsersEnv = "NOTION_DB_USERS_ID"
	DefaultNotionSwingEnv = "NOTION_DB_SWING_ANALYSIS_ID"
	DefaultNotionTokenEnv = "NOTION_API_KEY"
)

// Config holds the server configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// GRPCPort is the port of the gRPC health service (default 50051).
	// Zero after defaults disables the listener.
	GRPCPort int `yaml:"grpc_port"`

	// UIDir is a directory of static files served at "/". Empty disables it.
	UIDir string `yaml:"ui_dir"`

	// Timezone decides where a calendar day starts for quotas and missions.
	Timezone string `yaml:"timezone"`

	// Locale selects the comment, mission and chat language: en | ko.
	Locale string `yaml:"locale"`

	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Repository RepositoryConfig `yaml:"repository"`
	Notion     NotionConfig     `yaml:"notion"`
	Quota      QuotaConfig      `yaml:"quota"`
	Signup     SignupConfig     `yaml:"signup"`
	Chat       ChatConfig       `yaml:"chat"`
	Hub        HubConfig        `yaml:"hub"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// LogConfig controls the default slog handler.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// AuthConfig controls API key authentication for admin routes and gRPC.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header and gRPC metadata key carrying the key.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultAPIKeyHeader
}

// StorageConfig selects where usage counters and missions are kept.
type StorageConfig struct {
	// Backend is one of: memory | sqlite.
	Backend string `yaml:"backend"`

	// Path is the SQLite database file. Used when Backend == "sqlite".
	Path string `yaml:"path"`

	// Retention is how long past days are kept before pruning (default 168h).
	Retention time.Duration `yaml:"retention"`
}

// RepositoryConfig selects where the roster and analyses are kept.
type RepositoryConfig struct {
	// Backend is one of: memory | notion.
	Backend string `yaml:"backend"`
}

// NotionConfig configures the Notion backend. Ids and the token are read from
// the named environment variables.
type NotionConfig struct {
	TokenEnv      string        `yaml:"token_env"`
	UsersDBEnv    string        `yaml:"users_db_env"`
	AnalysesDBEnv string        `yaml:"analyses_db_env"`
	BaseURL       string        `yaml:"base_url"`
	Version       string        `yaml:"version"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Token returns the integration token from the environment.
func (n NotionConfig) Token() string { return os.Getenv(n.TokenEnv) }

// UsersDB returns the users database id from the environment.
func (n NotionConfig) UsersDB() string { return os.Getenv(n.UsersDBEnv) }

// AnalysesDB returns the swing analysis database id from the environment.
func (n NotionConfig) AnalysesDB() string { return os.Getenv(n.AnalysesDBEnv) }

// QuotaConfig holds the analysis quota.
type QuotaConfig struct {
	FreeDailyLimit int `yaml:"free_daily_limit"`
}

// SignupConfig limits roster growth.
type SignupConfig struct {
	// MaxUsers caps the roster; signups beyond it get 403 LIMIT_REACHED.
	MaxUsers int `yaml:"max_users"`
}

// ChatConfig configures the coach responder. Empty Rules keeps the built-in
// rules for the configured locale.
type ChatConfig struct {
	Delay    time.Duration `yaml:"delay"`
	Fallback string        `yaml:"fallback"`
	Rules    []ChatRule    `yaml:"rules"`
}

// ChatRule is one keyword rule.
type ChatRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// HubConfig controls the WebSocket roster broadcast.
type HubConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// NotifyConfig holds webhook delivery targets.
type NotifyConfig struct {
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`

	// Events limits delivery to these event names. Empty means all events.
	Events []string `yaml:"events"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Wants reports whether the target subscribes to event.
func (w WebhookConfig) Wants(event string) bool {
	if len(w.Events) == 0 {
		return true
	}
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Location returns the configured time zone. Validation guarantees it loads.
func (s ServerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML config data. An empty document yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is what
// the server runs with when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			GRPCPort: DefaultGRPCPort,
			Timezone: DefaultTimezone,
			Locale:   DefaultLocale,
			Log:      LogConfig{Level: DefaultLogLevel},
			Auth:     AuthConfig{Mode: "none"},
			Storage: StorageConfig{
				Backend:   DefaultStorageBackend,
				Path:      DefaultStoragePath,
				Retention: DefaultRetention,
			},
			Repository: RepositoryConfig{Backend: DefaultRepoBackend},
			Notion: NotionConfig{
				TokenEnv:      DefaultNotionTokenEnv,
				UsersDBEnv:    DefaultNotionUsersEnv,
				AnalysesDBEnv: DefaultNotionSwingEnv,
				Timeout:       DefaultNotionTimeout,
			},
			Quota:  QuotaConfig{FreeDailyLimit: DefaultFreeDailyLimit},
			Signup: SignupConfig{MaxUsers: DefaultMaxUsers},
			Hub:    HubConfig{Interval: DefaultHubInterval},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	s := &cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", s.HTTPPort)
	}
	if s.GRPCPort < 0 || s.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [0, 65535]", s.GRPCPort)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("server.timezone %q: %w", s.Timezone, err)
	}
	switch s.Locale {
	case "en", "ko":
	default:
		return fmt.Errorf("server.locale %q unknown: want en|ko", s.Locale)
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log.level %q unknown: want debug|info|warn|error", s.Log.Level)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", s.Auth.Mode)
	}
	if s.Auth.Mode == "apikey" && s.Auth.KeyEnv == "" {
		return fmt.Errorf("server.auth.key_env is required when mode is apikey")
	}
	switch s.Storage.Backend {
	case "memory":
	case "sqlite":
		if s.Storage.Path == "" {
			return fmt.Errorf("server.storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("server.storage.backend %q unknown: want memory|sqlite", s.Storage.Backend)
	}
	if s.Storage.Retention < 0 {
		return fmt.Errorf("server.storage.retention must not be negative")
	}
	switch s.Repository.Backend {
	case "memory":
	case "notion":
		if s.Notion.TokenEnv == "" || s.Notion.UsersDBEnv == "" || s.Notion.AnalysesDBEnv == "" {
			return fmt.Errorf("server.notion: token_env, users_db_env and analyses_db_env are required for the notion backend")
		}
	default:
		return fmt.Errorf("server.repository.backend %q unknown: want memory|notion", s.Repository.Backend)
	}
	if s.Quota.FreeDailyLimit < 0 {
		return fmt.Errorf("server.quota.free_daily_limit must not be negative")
	}
	if s.Signup.MaxUsers < 0 {
		return fmt.Errorf("server.signup.max_users must not be negative")
	}
	if s.Chat.Delay < 0 {
		return fmt.Errorf("server.chat.delay must not be negative")
	}
	if s.Hub.Interval <= 0 {
		return fmt.Errorf("server.hub.interval must be positive")
	}
	for i, r := range s.Chat.Rules {
		if r.Name == "" || len(r.Keywords) == 0 {
			return fmt.Errorf("server.chat.rules[%d]: name and keywords are required", i)
		}
	}
	for i, w := range s.Notify.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("server.notify.webhooks[%d].type %q unknown: want slack|teams|http", i, w.Type)
		}
		if w.URLEnv == "" {
			return fmt.Errorf("server.notify.webhooks[%d].url_env is required", i)
		}
	}
	return nil
}
