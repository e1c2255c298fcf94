package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig is loaded once at startup and treated as immutable for the
// process lifetime; signing secrets live only here.
type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	Kafka    KafkaSettings    `mapstructure:"kafka"`
	Session  SessionSettings  `mapstructure:"session"`
	Reset    ResetSettings    `mapstructure:"reset"`
	Bcrypt   BcryptSettings   `mapstructure:"bcrypt"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// IsDevelopment reports whether development-only behaviour (insecure cookies,
// reset links in responses) is enabled.
func (s AppSettings) IsDevelopment() bool {
	return s.Env == "development"
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// KafkaSettings configures the domain event producer. An empty broker list
// switches the service to the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// SessionSettings configures the bearer session credential and its cookie.
type SessionSettings struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// ResetSettings configures the password reset credential. LinkBase is the
// front-end URL the development-mode reset link points at.
type ResetSettings struct {
	Secret   string        `mapstructure:"secret"`
	TTL      time.Duration `mapstructure:"ttl"`
	LinkBase string        `mapstructure:"link_base"`
}

type BcryptSettings struct {
	Cost int `mapstructure:"cost"`
}

// Load reads configuration from AUTH_-prefixed environment variables with
// sane development defaults.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("AUTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.health_check_period",
		"kafka.brokers",
		"kafka.topic_prefix",
		"session.secret",
		"session.ttl",
		"session.cookie_name",
		"reset.secret",
		"reset.ttl",
		"reset.link_base",
		"bcrypt.cost",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("AUTH_SESSION_SECRET is required")
	}
	if cfg.Reset.Secret == "" {
		return nil, fmt.Errorf("AUTH_RESET_SECRET is required")
	}
	if cfg.Session.Secret == cfg.Reset.Secret {
		return nil, fmt.Errorf("session and reset secrets must differ")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "auth-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 7777)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "auth")
	v.SetDefault("postgres.password", "auth_password")
	v.SetDefault("postgres.database", "auth")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "auth")

	v.SetDefault("session.ttl", "360h")
	v.SetDefault("session.cookie_name", "session")

	v.SetDefault("reset.ttl", "30m")
	v.SetDefault("reset.link_base", "http://localhost:7777/reset-password")

	v.SetDefault("bcrypt.cost", 10)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "AUTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
