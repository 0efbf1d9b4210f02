package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	API     APIConfig
	SFTP    SFTPConfig
	Paths   PathsConfig
	Sync    SyncConfig
	Ledger  LedgerConfig
	Redis   RedisConfig
	Tenants []TenantConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// APIConfig holds settings for the management API surface
type APIConfig struct {
	Key string // shared key required on management endpoints
}

// SFTPConfig holds the 3PL file-drop connection settings
type SFTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DialTimeout time.Duration
	// Remote directory layout on the 3PL server
	InboxDir   string // where outbound order files are dropped
	OutboxDir  string // where the 3PL publishes shipping reports
	ArchiveDir string // where processed reports are moved
	// Retry policy for transient transfer failures
	RetryAttempts int
	RetryDelay    time.Duration
}

// PathsConfig holds the local working directories
type PathsConfig struct {
	OutgoingDir string // generated order files awaiting upload
	IncomingDir string // downloaded shipping reports awaiting processing
	BackupsDir  string // timestamped copies of transferred files
}

// SyncConfig holds the background synchronization settings
type SyncConfig struct {
	ExportEnabled  bool
	ExportInterval time.Duration
	ImportEnabled  bool
	ImportInterval time.Duration
	RecordTimeout  time.Duration // per status-update budget when applying a report record
	FileTimeout    time.Duration // budget for processing one report file
}

// LedgerConfig holds the optional processed-record ledger settings
type LedgerConfig struct {
	Enabled bool
	Backend string // redis or memory
	TTL     time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TenantConfig holds one storefront's settings
type TenantConfig struct {
	Key        string `mapstructure:"key"`
	Name       string `mapstructure:"name"`
	Prefix     string `mapstructure:"prefix"`
	ShopName   string `mapstructure:"shop_name"`
	APIKey     string `mapstructure:"api_key"`
	APISecret  string `mapstructure:"api_secret"`
	APIVersion string `mapstructure:"api_version"`
	WebhookURL string `mapstructure:"webhook_url"`
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FULFILLSYNC_ prefix (e.g., FULFILLSYNC_SFTP_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FULFILLSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		API: APIConfig{
			Key: v.GetString("api.key"),
		},
		SFTP: SFTPConfig{
			Host:          v.GetString("sftp.host"),
			Port:          v.GetInt("sftp.port"),
			User:          v.GetString("sftp.user"),
			Password:      v.GetString("sftp.password"),
			DialTimeout:   v.GetDuration("sftp.dial_timeout"),
			InboxDir:      v.GetString("sftp.inbox_dir"),
			OutboxDir:     v.GetString("sftp.outbox_dir"),
			ArchiveDir:    v.GetString("sftp.archive_dir"),
			RetryAttempts: v.GetInt("sftp.retry_attempts"),
			RetryDelay:    v.GetDuration("sftp.retry_delay"),
		},
		Paths: PathsConfig{
			OutgoingDir: v.GetString("paths.outgoing_dir"),
			IncomingDir: v.GetString("paths.incoming_dir"),
			BackupsDir:  v.GetString("paths.backups_dir"),
		},
		Sync: SyncConfig{
			ExportEnabled:  v.GetBool("sync.export_enabled"),
			ExportInterval: v.GetDuration("sync.export_interval"),
			ImportEnabled:  v.GetBool("sync.import_enabled"),
			ImportInterval: v.GetDuration("sync.import_interval"),
			RecordTimeout:  v.GetDuration("sync.record_timeout"),
			FileTimeout:    v.GetDuration("sync.file_timeout"),
		},
		Ledger: LedgerConfig{
			Enabled: v.GetBool("ledger.enabled"),
			Backend: v.GetString("ledger.backend"),
			TTL:     v.GetDuration("ledger.ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}

	if err := v.UnmarshalKey("tenants", &cfg.Tenants); err != nil {
		return nil, fmt.Errorf("error parsing tenants config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fulfillsync-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.SFTP.Port == 0 {
		cfg.SFTP.Port = 22
	}
	if cfg.SFTP.DialTimeout == 0 {
		cfg.SFTP.DialTimeout = 30 * time.Second
	}
	if cfg.SFTP.InboxDir == "" {
		cfg.SFTP.InboxDir = "/IN"
	}
	if cfg.SFTP.OutboxDir == "" {
		cfg.SFTP.OutboxDir = "/OUT"
	}
	if cfg.SFTP.ArchiveDir == "" {
		cfg.SFTP.ArchiveDir = "/OUT/ARCHIVES"
	}
	if cfg.SFTP.RetryAttempts == 0 {
		cfg.SFTP.RetryAttempts = 3
	}
	if cfg.SFTP.RetryDelay == 0 {
		cfg.SFTP.RetryDelay = 5 * time.Second
	}
	if cfg.Paths.OutgoingDir == "" {
		cfg.Paths.OutgoingDir = "data/outgoing"
	}
	if cfg.Paths.IncomingDir == "" {
		cfg.Paths.IncomingDir = "data/incoming"
	}
	if cfg.Paths.BackupsDir == "" {
		cfg.Paths.BackupsDir = "data/backups"
	}
	if cfg.Sync.ExportInterval == 0 {
		cfg.Sync.ExportInterval = time.Hour
	}
	if cfg.Sync.ImportInterval == 0 {
		cfg.Sync.ImportInterval = 30 * time.Minute
	}
	if cfg.Sync.RecordTimeout == 0 {
		cfg.Sync.RecordTimeout = 30 * time.Second
	}
	if cfg.Sync.FileTimeout == 0 {
		cfg.Sync.FileTimeout = 5 * time.Minute
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "memory"
	}
	if cfg.Ledger.TTL == 0 {
		cfg.Ledger.TTL = 168 * time.Hour
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	for i := range cfg.Tenants {
		if cfg.Tenants[i].APIVersion == "" {
			cfg.Tenants[i].APIVersion = "2025-01"
		}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Ledger.Backend != "memory" && c.Ledger.Backend != "redis" {
		return fmt.Errorf("ledger.backend must be 'memory' or 'redis', got %q", c.Ledger.Backend)
	}
	if c.Sync.ExportInterval < time.Minute {
		return fmt.Errorf("sync.export_interval must be at least one minute")
	}
	if c.Sync.ImportInterval < time.Minute {
		return fmt.Errorf("sync.import_interval must be at least one minute")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.API.Key == "" {
			return fmt.Errorf("api.key is required in production")
		}
		if c.SFTP.Host == "" {
			return fmt.Errorf("sftp.host is required in production")
		}
		if c.SFTP.User == "" {
			return fmt.Errorf("sftp.user is required in production")
		}
		if c.SFTP.Password == "" {
			return fmt.Errorf("sftp.password is required in production")
		}
		if len(c.Tenants) == 0 {
			return fmt.Errorf("at least one tenant must be configured in production")
		}
	}

	return nil
}

// Addr returns the host:port pair for the SFTP server
func (s *SFTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Addr returns the host:port pair for the Redis server
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
