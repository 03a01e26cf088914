package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Identity: backend de identidad externo (o stub embebido para dev/tests).
	Identity struct {
		Driver  string `yaml:"driver"` // stub | remote
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		// Secreto HS256 compartido con el backend de identidad para verificar
		// el token de sesión localmente (sub = identity id).
		JWTSecret string `yaml:"jwt_secret"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"identity"`

	// Rate: ventana de despacho por identidad (1 reporte por ventana).
	Rate struct {
		Driver string `yaml:"driver"` // memory | redis | postgres
		Window string `yaml:"window"`
		Prefix string `yaml:"prefix"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Report struct {
		Subject      string `yaml:"subject"`
		TemplatesDir string `yaml:"templates_dir"` // vacío => templates embebidos
	} `yaml:"report"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Storage struct {
		Postgres struct {
			DSN             string `yaml:"dsn"`
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`
}

// Load lee el YAML, aplica defaults, overrides por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Identity.Driver == "" {
		c.Identity.Driver = "stub"
	}
	if c.Identity.Timeout == "" {
		c.Identity.Timeout = "10s"
	}
	if c.Rate.Driver == "" {
		c.Rate.Driver = "memory"
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.Prefix == "" {
		c.Rate.Prefix = "report:"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Report.Subject == "" {
		c.Report.Subject = "Security Report"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "0"
	}

	// validate string durations
	if _, err := time.ParseDuration(c.Rate.Window); err != nil {
		return nil, fmt.Errorf("rate.window: %w", err)
	}
	if _, err := time.ParseDuration(c.Identity.Timeout); err != nil {
		return nil, fmt.Errorf("identity.timeout: %w", err)
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("storage.postgres.conn_max_lifetime: %w", err)
		}
	}

	// Overrides por env + salvaguardas prod
	c.applyEnvOverrides()

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// RateWindow retorna la ventana parseada (ya validada en Load).
func (c *Config) RateWindow() time.Duration {
	d, _ := time.ParseDuration(c.Rate.Window)
	return d
}

// IdentityTimeout retorna el timeout del cliente de identidad.
func (c *Config) IdentityTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Identity.Timeout)
	return d
}

func (c *Config) validate() error {
	env := strings.ToLower(c.App.Env)
	if c.Identity.Driver == "remote" && strings.TrimSpace(c.Identity.BaseURL) == "" {
		return fmt.Errorf("identity.base_url es requerido con driver=remote")
	}
	// En prod el secreto de verificación nunca puede faltar: sin él no se
	// puede re-derivar la identidad desde el token de sesión.
	if env == "prod" && strings.TrimSpace(c.Identity.JWTSecret) == "" {
		return fmt.Errorf("identity.jwt_secret es requerido en prod")
	}
	switch c.Rate.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("rate.driver inválido: %q", c.Rate.Driver)
	}
	if c.Rate.Driver == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return fmt.Errorf("cache.redis.addr es requerido con rate.driver=redis")
	}
	if c.Rate.Driver == "postgres" && strings.TrimSpace(c.Storage.Postgres.DSN) == "" {
		return fmt.Errorf("storage.postgres.dsn es requerido con rate.driver=postgres")
	}
	return nil
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

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// IDENTITY
	if v, ok := getEnvStr("IDENTITY_DRIVER"); ok {
		c.Identity.Driver = v
	}
	if v, ok := getEnvStr("IDENTITY_BASE_URL"); ok {
		c.Identity.BaseURL = v
	}
	if v, ok := getEnvStr("IDENTITY_API_KEY"); ok {
		c.Identity.APIKey = v
	}
	if v, ok := getEnvStr("IDENTITY_JWT_SECRET"); ok {
		c.Identity.JWTSecret = v
	}

	// RATE
	if v, ok := getEnvStr("RATE_DRIVER"); ok {
		c.Rate.Driver = v
	}
	if v, ok := getEnvStr("RATE_WINDOW"); ok {
		if _, err := time.ParseDuration(v); err == nil {
			c.Rate.Window = v
		}
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}

	// CACHE / REDIS
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// STORAGE
	if v, ok := getEnvStr("POSTGRES_DSN"); ok {
		c.Storage.Postgres.DSN = v
	}

	// Guardia dura: en prod el stub de identidad no es válido.
	if strings.EqualFold(c.App.Env, "prod") && c.Identity.Driver == "stub" {
		c.Identity.Driver = "remote"
	}
}
