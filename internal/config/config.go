package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	AllowedOrigins []string
	HealthAdminKey string
	ListCacheTTL   time.Duration
	LogLevel       string
	LogFormat      string
	APIBaseURL     string
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:5174", "http://localhost:3000"}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3001")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LIST_CACHE_TTL_SECONDS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("API_BASE_URL", "http://localhost:3001/api")

	return &Config{
		Env:            v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AllowedOrigins: origins(v.GetString("ALLOWED_ORIGINS")),
		HealthAdminKey: v.GetString("HEALTH_ADMIN_KEY"),
		ListCacheTTL:   time.Duration(v.GetInt("LIST_CACHE_TTL_SECONDS")) * time.Second,
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		APIBaseURL:     strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func origins(s string) []string {
	if strings.TrimSpace(s) == "" {
		return defaultOrigins
	}
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
