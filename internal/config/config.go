package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Client    ClientConfig
	UI        UIConfig
	Telemetry TelemetryConfig
}

// DatabaseConfig selects and addresses the store. Driver is "sqlite3" or "postgres".
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string `mapstructure:"sslmode"`
}

// ServerConfig holds REST API settings.
type ServerConfig struct {
	Addr            string
	StaticDir       string        `mapstructure:"static_dir"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	APIToken        string        `mapstructure:"api_token"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ClientConfig holds settings for talking to a remote API.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout time.Duration
	Token   string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ToastSeconds int `mapstructure:"toast_seconds"`
}

// TelemetryConfig holds tracing settings. An empty endpoint disables tracing.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

// DSN returns the driver-specific data source name.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:   "/" + d.Name,
		}
		q := url.Values{}
		q.Set("sslmode", d.SSLMode)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.Path)
}

// ToastDuration converts ToastSeconds, falling back to five seconds.
func (u UIConfig) ToastDuration() time.Duration {
	if u.ToastSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(u.ToastSeconds) * time.Second
}

// Path returns the config file location. LENDTRACK_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("LENDTRACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "lendtrack", "config.toml")
}

// Load reads configuration from .env, file and env. Env var overrides use prefix LENDTRACK_.
// The DB_* variables of a plain .env file are honoured for postgres settings.
func Load() (Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("LENDTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range map[string]string{
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
	} {
		if err := v.BindEnv(key, "LENDTRACK_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "lendtrack", "lendtrack.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "lendtrack")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.api_token", "")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("client.base_url", "http://localhost:8081/api")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.token", "")
	v.SetDefault("ui.toast_seconds", 5)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "lendtrack")
}

// isMissingFile reports whether ReadInConfig failed only because there is no file.
func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

// Validate checks settings that would otherwise fail late and obscurely.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3":
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("config: database.path is required for sqlite3")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("config: database.host and database.name are required for postgres")
		}
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}
	if _, err := url.ParseRequestURI(c.Client.BaseURL); err != nil {
		return fmt.Errorf("config: client.base_url: %w", err)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Secrets (database password, API tokens) are never written; keep them in env or the secret store.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.host", cfg.Database.Host)
	v.Set("database.port", cfg.Database.Port)
	v.Set("database.user", cfg.Database.User)
	v.Set("database.name", cfg.Database.Name)
	v.Set("database.sslmode", cfg.Database.SSLMode)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.static_dir", cfg.Server.StaticDir)
	v.Set("server.allowed_origins", cfg.Server.AllowedOrigins)
	v.Set("server.shutdown_timeout", cfg.Server.ShutdownTimeout.String())
	v.Set("client.base_url", cfg.Client.BaseURL)
	v.Set("client.timeout", cfg.Client.Timeout.String())
	v.Set("ui.toast_seconds", cfg.UI.ToastSeconds)
	v.Set("telemetry.otlp_endpoint", cfg.Telemetry.OTLPEndpoint)
	v.Set("telemetry.service_name", cfg.Telemetry.ServiceName)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
