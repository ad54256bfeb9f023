package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment override, e.g. INTENTGUARD_BACKEND_BASE_URL.
const envPrefix = "INTENTGUARD"

// Config is the immutable process configuration. It is loaded once in main
// and passed by value to the components that need it.
type Config struct {
	HTTP          HTTPConfig
	Backend       BackendConfig
	DB            DBConfig
	Log           LogConfig
	Auth          AuthConfig
	Views         ViewsConfig
	History       HistoryConfig
	Notifications NotificationsConfig
	NATS          NATSConfig
}

type HTTPConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// BackendConfig points at the sensor/alert backend. BaseURL has no trailing slash.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DBConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// ViewConfig is the polling cadence and alert filter of one view.
type ViewConfig struct {
	Interval    time.Duration
	AlertStatus string
	AlertLimit  int
}

type ViewsConfig struct {
	Dashboard   ViewConfig
	DigitalTwin ViewConfig
	Summary     ViewConfig
}

type HistoryConfig struct {
	Capacity int
}

type NotificationsConfig struct {
	Recent int
}

// NATSConfig enables notification fan-out when URL is set.
type NATSConfig struct {
	URL     string
	Subject string
}

var (
	errMissingBaseURL = errors.New("backend.base_url is required")
	errBadInterval    = errors.New("view intervals must be positive")
)

// Defaults mirrors the cadences and limits the operator views were designed around.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("backend.timeout", 15*time.Second)

	v.SetDefault("db.path", "intentguard.db")
	v.SetDefault("log.level", "info")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("views.dashboard.interval", 3*time.Second)
	v.SetDefault("views.dashboard.alert_status", "active")
	v.SetDefault("views.dashboard.alert_limit", 10)
	v.SetDefault("views.digital_twin.interval", 5*time.Second)
	v.SetDefault("views.digital_twin.alert_status", "")
	v.SetDefault("views.digital_twin.alert_limit", 10)
	v.SetDefault("views.summary.interval", 10*time.Second)
	v.SetDefault("views.summary.alert_status", "")
	v.SetDefault("views.summary.alert_limit", 5)

	v.SetDefault("history.capacity", 20)
	v.SetDefault("notifications.recent", 50)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "intentguard.notifications")
}

// Load reads configs/config.yml (optional), the environment and an optional
// .env file. Missing files are not an error; an invalid configuration is.
func Load(configDir string) (Config, error) {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BACKEND_URL is the name the frontend deployment already exports.
	_ = v.BindEnv("backend.base_url", envPrefix+"_BACKEND_BASE_URL", "BACKEND_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Port:              v.GetString("http.port"),
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("backend.base_url")), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		DB:   DBConfig{Path: v.GetString("db.path")},
		Log:  LogConfig{Level: strings.ToLower(v.GetString("log.level"))},
		Auth: AuthConfig{SigningKey: v.GetString("auth.signing_key"), TokenTTL: v.GetDuration("auth.token_ttl")},
		Views: ViewsConfig{
			Dashboard:   viewFromViper(v, "views.dashboard"),
			DigitalTwin: viewFromViper(v, "views.digital_twin"),
			Summary:     viewFromViper(v, "views.summary"),
		},
		History:       HistoryConfig{Capacity: v.GetInt("history.capacity")},
		Notifications: NotificationsConfig{Recent: v.GetInt("notifications.recent")},
		NATS:          NATSConfig{URL: v.GetString("nats.url"), Subject: v.GetString("nats.subject")},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func viewFromViper(v *viper.Viper, key string) ViewConfig {
	return ViewConfig{
		Interval:    v.GetDuration(key + ".interval"),
		AlertStatus: v.GetString(key + ".alert_status"),
		AlertLimit:  v.GetInt(key + ".alert_limit"),
	}
}

// Validate checks the invariants the rest of the process relies on.
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errMissingBaseURL
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}
	for _, vc := range []ViewConfig{c.Views.Dashboard, c.Views.DigitalTwin, c.Views.Summary} {
		if vc.Interval <= 0 {
			return errBadInterval
		}
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	return nil
}
