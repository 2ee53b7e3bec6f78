package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	CORSAllowOrigins    string
	RankingRateLimit    int
	RankingRateWindow   time.Duration
	SubmissionsPageSize int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Debug reports whether error details may be exposed to clients.
func (c Config) Debug() bool {
	return !strings.EqualFold(strings.TrimSpace(c.AppEnv), "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GEMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("app.name", "GEMA Arena API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("ranking.rate_limit", 30)
	v.SetDefault("ranking.rate_window", "1m")
	v.SetDefault("submissions.page_size", defaultPageSize)

	window, err := time.ParseDuration(v.GetString("ranking.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ranking rate window: %w", err)
	}
	if window <= 0 {
		return Config{}, fmt.Errorf("ranking rate window must be positive")
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              strings.ToLower(v.GetString("app.env")),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		RankingRateLimit:    v.GetInt("ranking.rate_limit"),
		RankingRateWindow:   window,
		SubmissionsPageSize: v.GetInt("submissions.page_size"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RankingRateLimit <= 0 {
		cfg.RankingRateLimit = 30
	}

	if cfg.SubmissionsPageSize <= 0 {
		cfg.SubmissionsPageSize = defaultPageSize
	}
	if cfg.SubmissionsPageSize > maxPageSize {
		cfg.SubmissionsPageSize = maxPageSize
	}

	return cfg, nil
}
