package config

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables read by Load. Nested keys use
// a double underscore: UKRBUS_DB__DSN sets db.dsn.
const EnvPrefix = "UKRBUS_"

// DefaultPaymentDelay is how long the mock payment "processes".
const DefaultPaymentDelay = 5 * time.Second

type Env struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	DB      DBConfig      `koanf:"db"`
	CORS    CORSConfig    `koanf:"cors"`
	Auth    AuthConfig    `koanf:"auth"`
	Payment PaymentConfig `koanf:"payment"`
}

type AppConfig struct {
	Addr          string `koanf:"addr"`
	GinMode       string `koanf:"gin_mode" validate:"omitempty,oneof=debug release test"`
	DefaultLocale string `koanf:"default_locale" validate:"oneof=en uk"`
	Timezone      string `koanf:"timezone"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type DBConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret" validate:"required,min=16"`
	TokenTTL    time.Duration `koanf:"token_ttl" validate:"gt=0"`
	// SecretGenerated is set when no secret was configured and a random
	// one was made for this process. Tokens do not survive a restart then.
	SecretGenerated bool `koanf:"-"`
}

type PaymentConfig struct {
	Delay      time.Duration `koanf:"delay" validate:"gte=0"`
	SupportURL string        `koanf:"support_url" validate:"omitempty,url"`
}

// Load reads the optional config file at path (yaml or json) and applies
// UKRBUS_ environment overrides on top.
func Load(path string) (Env, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return Env{}, fmt.Errorf("unsupported config format: %s", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Env{}, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return Env{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Env
	if err := k.Unmarshal("", &cfg); err != nil {
		return Env{}, fmt.Errorf("decode config: %w", err)
	}
	// an explicit 0 disables the simulated processing time
	if !k.Exists("payment.delay") {
		cfg.Payment.Delay = DefaultPaymentDelay
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

// SetDefaults fills unset values.
func (e *Env) SetDefaults() {
	if strings.TrimSpace(e.App.Addr) == "" {
		e.App.Addr = ":8080"
	}
	if e.App.DefaultLocale == "" {
		e.App.DefaultLocale = "uk"
	}
	if e.Log.Level == "" {
		e.Log.Level = "info"
	}
	if e.Log.Format == "" {
		e.Log.Format = "json"
	}
	if e.DB.MaxOpenConns == 0 {
		e.DB.MaxOpenConns = 25
	}
	if len(e.CORS.AllowedOrigins) == 0 {
		e.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}
	if e.Auth.TokenSecret == "" {
		e.Auth.TokenSecret = rand.Text()
		e.Auth.SecretGenerated = true
	}
	if e.Auth.TokenTTL == 0 {
		e.Auth.TokenTTL = 2 * time.Hour
	}
	if e.Payment.SupportURL == "" {
		e.Payment.SupportURL = "https://t.me/UkrBus_ua"
	}
}

// Validate checks the loaded values.
func (e Env) Validate() error {
	if err := validator.New().Struct(e); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if e.App.Timezone != "" {
		if _, err := time.LoadLocation(e.App.Timezone); err != nil {
			return fmt.Errorf("invalid config: app.timezone: %w", err)
		}
	}
	return nil
}

// Location returns the configured timezone, Local when unset.
func (e Env) Location() *time.Location {
	if e.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
