package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host                   string `mapstructure:"host"`
	Port                   string `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Pass                   string `mapstructure:"pass"`
	Name                   string `mapstructure:"name"`
	MaxConns               int32  `mapstructure:"max_conns"`
	Encrypt                bool   `mapstructure:"encrypt"`
	TrustServerCertificate bool   `mapstructure:"trust_server_certificate"`
	MigrateOnStart         bool   `mapstructure:"migrate_on_start"`
}

// SSLMode maps the encryption settings to a libpq sslmode.
// Encrypted connections that trust the server certificate skip verification.
func (config *DbServer) SSLMode() string {
	switch {
	case !config.Encrypt:
		return "disable"
	case config.TrustServerCertificate:
		return "require"
	default:
		return "verify-full"
	}
}

func (config *DbServer) GetConnectionStr() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.User, config.Pass),
		Host:   config.Host + ":" + config.Port,
		Path:   "/" + config.Name,
	}
	q := u.Query()
	q.Set("sslmode", config.SSLMode())
	u.RawQuery = q.Encode()
	return u.String()
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type RateAPI struct {
	BaseURL  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	Currency string `mapstructure:"currency"`
}

type Scheduler struct {
	Cron              string `mapstructure:"cron"`
	Timezone          string `mapstructure:"timezone"`
	JobTimeoutSeconds int    `mapstructure:"job_timeout_seconds"`
}

// Location resolves the configured time zone. An empty value means the process local zone.
func (s *Scheduler) Location() (*time.Location, error) {
	if s.Timezone == "" || strings.EqualFold(s.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Journal struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	RateAPI    RateAPI    `mapstructure:"rate_api"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Logging    Logging    `mapstructure:"logging"`
	Journal    Journal    `mapstructure:"journal"`
}

// Init reads configFile (yaml) and the optional .env file, then overlays environment variables.
func Init(configFile string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "3000")
	v.SetDefault("db_server.port", "5432")
	v.SetDefault("db_server.max_conns", 4)
	v.SetDefault("db_server.encrypt", true)
	v.SetDefault("db_server.trust_server_certificate", true)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("rate_api.base_url", "https://api.apis.net.pe/v2/sunat/tipo-cambio")
	v.SetDefault("rate_api.currency", "USD")
	v.SetDefault("scheduler.cron", "0 7 * * *")
	v.SetDefault("scheduler.job_timeout_seconds", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("journal.max_items", 64)

	// http server env vars
	_ = v.BindEnv("http_server.port", "PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_SERVER")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASSWORD")
	_ = v.BindEnv("db_server.name", "DB_DATABASE")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")
	_ = v.BindEnv("db_server.encrypt", "DB_ENCRYPT")
	_ = v.BindEnv("db_server.trust_server_certificate", "DB_TRUST_SERVER_CERTIFICATE")
	_ = v.BindEnv("db_server.migrate_on_start", "DB_MIGRATE_ON_START")

	// rate api env vars
	_ = v.BindEnv("rate_api.base_url", "RATE_API_BASE_URL")
	_ = v.BindEnv("rate_api.token", "API_TOKEN")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// scheduler env vars
	_ = v.BindEnv("scheduler.cron", "SCHEDULER_CRON")
	_ = v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.RateAPI.Token == "" {
		return errors.New("rate api token is required (API_TOKEN)")
	}
	if c.RateAPI.BaseURL == "" {
		return errors.New("rate api base url is required")
	}
	if c.DbServer.Host == "" || c.DbServer.Name == "" {
		return errors.New("db server host and name are required (DB_SERVER, DB_DATABASE)")
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return err
	}
	return nil
}
