package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
		// BaseURL se usa para armar los links de confirmación.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		Driver          string        `yaml:"driver"` // postgres | sqlite | memory
		DSN             string        `yaml:"dsn"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		AutoMigrate     bool          `yaml:"auto_migrate"`
	} `yaml:"storage"`

	Cache struct {
		Kind     string        `yaml:"kind"` // memory | redis | none
		TokenTTL time.Duration `yaml:"token_ttl"`
		Redis    struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Email struct {
		Driver    string `yaml:"driver"` // api | smtp | ses | log
		FromEmail string `yaml:"from_email"`
		FromName  string `yaml:"from_name"`

		API struct {
			BaseURL            string        `yaml:"base_url"`
			AuthorizationToken string        `yaml:"authorization_token"`
			Timeout            time.Duration `yaml:"timeout"`
		} `yaml:"api"`

		SMTP struct {
			Host               string        `yaml:"host"`
			Port               int           `yaml:"port"`
			Username           string        `yaml:"username"`
			Password           string        `yaml:"password"`
			TLSMode            string        `yaml:"tls_mode"`
			InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
			Timeout            time.Duration `yaml:"timeout"`
		} `yaml:"smtp"`

		SES struct {
			Region    string `yaml:"region"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
			Endpoint  string `yaml:"endpoint"`
		} `yaml:"ses"`
	} `yaml:"email"`

	Newsletter struct {
		// Concurrency > 1 habilita envíos en paralelo.
		Concurrency int `yaml:"concurrency"`
	} `yaml:"newsletter"`

	Hash struct {
		// Workers para verificación de passwords; 0 = GOMAXPROCS.
		Workers int `yaml:"workers"`
	} `yaml:"hash"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load lee path (si no está vacío), aplica defaults y luego las variables de
// entorno. No valida: eso es Validate.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.applyEnvOverrides()
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = "http://127.0.0.1:8000"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TokenTTL == 0 {
		c.Cache.TokenTTL = 24 * time.Hour
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "hellolist"
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "api"
	}
	if c.Email.API.Timeout == 0 {
		c.Email.API.Timeout = 10 * time.Second
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Email.SMTP.TLSMode == "" {
		c.Email.SMTP.TLSMode = "auto"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_BASE_URL"); ok {
		c.App.BaseURL = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_OPEN_CONNS"); ok {
		c.Storage.MaxOpenConns = v
	}
	if v, ok := getEnvBool("STORAGE_AUTO_MIGRATE"); ok {
		c.Storage.AutoMigrate = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// EMAIL
	if v, ok := getEnvStr("EMAIL_DRIVER"); ok {
		c.Email.Driver = v
	}
	if v, ok := getEnvStr("EMAIL_FROM"); ok {
		c.Email.FromEmail = v
	}
	if v, ok := getEnvStr("EMAIL_API_BASE_URL"); ok {
		c.Email.API.BaseURL = v
	}
	if v, ok := getEnvStr("EMAIL_API_AUTHORIZATION_TOKEN"); ok {
		c.Email.API.AuthorizationToken = v
	}
	if v, ok := getEnvDur("EMAIL_API_TIMEOUT"); ok {
		c.Email.API.Timeout = v
	}
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.Email.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.Email.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.Email.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.Email.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_TLS_MODE"); ok {
		c.Email.SMTP.TLSMode = v
	}
	if v, ok := getEnvStr("SES_REGION"); ok {
		c.Email.SES.Region = v
	}
	if v, ok := getEnvStr("SES_ACCESS_KEY"); ok {
		c.Email.SES.AccessKey = v
	}
	if v, ok := getEnvStr("SES_SECRET_KEY"); ok {
		c.Email.SES.SecretKey = v
	}

	// WORKERS
	if v, ok := getEnvInt("NEWSLETTER_CONCURRENCY"); ok {
		c.Newsletter.Concurrency = v
	}
	if v, ok := getEnvInt("HASH_WORKERS"); ok {
		c.Hash.Workers = v
	}
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Validate revisa los valores críticos y junta todos los problemas.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.App.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("app.base_url %q must be an absolute URL", c.App.BaseURL))
	}

	switch c.Storage.Driver {
	case "postgres", "sqlite":
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}

	switch c.Cache.Kind {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for kind redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q is not supported", c.Cache.Kind))
	}

	switch c.Email.Driver {
	case "api":
		if c.Email.API.BaseURL == "" {
			errs = append(errs, errors.New("email.api.base_url is required for driver api"))
		}
	case "smtp":
		if c.Email.SMTP.Host == "" {
			errs = append(errs, errors.New("email.smtp.host is required for driver smtp"))
		}
	case "ses", "log":
	default:
		errs = append(errs, fmt.Errorf("email.driver %q is not supported", c.Email.Driver))
	}
	if c.Email.Driver != "log" && c.Email.FromEmail == "" {
		errs = append(errs, errors.New("email.from_email is required"))
	}
	if c.App.Env == "prod" && c.Email.Driver == "log" {
		errs = append(errs, errors.New("email.driver log is not allowed in prod"))
	}

	if c.Newsletter.Concurrency < 0 {
		errs = append(errs, errors.New("newsletter.concurrency cannot be negative"))
	}
	if c.Hash.Workers < 0 {
		errs = append(errs, errors.New("hash.workers cannot be negative"))
	}
	return errors.Join(errs...)
}
