package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Display  DisplayConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	// Delays before the post-success redirect pages move on.
	ApplyRedirectDelay time.Duration
	SaveRedirectDelay  time.Duration
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	// Backend is one of memory, postgres, redis.
	Backend       string
	Secret        string
	SecureCookies bool
	MaxAge        time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	URL string
}

type DisplayConfig struct {
	Locale   string
	Currency string
	TimeZone string
}

type LLMConfig struct {
	GeminiAPIKey string
	Model        string
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Load reads envFile when it exists, then the environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("config: %s not loaded (%v), using environment variables", envFile, err)
	}

	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return d
	}
	boolean := func(key string, def bool) bool {
		v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			GinMode:            getEnv("GIN_MODE", "debug"),
			AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			ApplyRedirectDelay: duration("APPLY_REDIRECT_DELAY", "1500ms"),
			SaveRedirectDelay:  duration("SAVE_REDIRECT_DELAY", "500ms"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
			Timeout: duration("API_TIMEOUT", "10s"),
		},
		Session: SessionConfig{
			Backend:       strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
			Secret:        getEnv("SESSION_SECRET", ""),
			SecureCookies: boolean("SESSION_SECURE_COOKIES", false),
			MaxAge:        duration("SESSION_MAX_AGE", "168h"),
			IdleTTL:       duration("SESSION_IDLE_TTL", "30m"),
			SweepInterval: duration("SESSION_SWEEP_INTERVAL", "5m"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "talent_portal"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Display: DisplayConfig{
			Locale:   getEnv("DISPLAY_LOCALE", "pt-BR"),
			Currency: getEnv("DISPLAY_CURRENCY", "BRL"),
			TimeZone: getEnv("DISPLAY_TIMEZONE", "America/Sao_Paulo"),
		},
		LLM: LLMConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	switch c.Session.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	for key, d := range map[string]time.Duration{
		"SESSION_MAX_AGE":        c.Session.MaxAge,
		"SESSION_IDLE_TTL":       c.Session.IdleTTL,
		"SESSION_SWEEP_INTERVAL": c.Session.SweepInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	for _, o := range c.Server.AllowedOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("ALLOWED_ORIGINS: %q is not an http(s) origin", o)
		}
	}
	return nil
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
