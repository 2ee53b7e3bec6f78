package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	v.Set("jwt.secret", "secret")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 30, cfg.RankingRateLimit)
	require.Equal(t, time.Minute, cfg.RankingRateWindow)
	require.Equal(t, 20, cfg.SubmissionsPageSize)
	require.True(t, cfg.Debug())
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("jwt.secret", "secret")
	v.Set("app.env", "Production")
	v.Set("app.port", ":9090")
	v.Set("ranking.rate_limit", 5)
	v.Set("ranking.rate_window", "30s")
	v.Set("submissions.page_size", 500)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 5, cfg.RankingRateLimit)
	require.Equal(t, 30*time.Second, cfg.RankingRateWindow)
	require.Equal(t, 100, cfg.SubmissionsPageSize)
	require.False(t, cfg.Debug())
}

func TestFromViperRequiresSecret(t *testing.T) {
	_, err := fromViper(viper.New())
	require.Error(t, err)
}

func TestFromViperRejectsBadWindow(t *testing.T) {
	v := viper.New()
	v.Set("jwt.secret", "secret")
	v.Set("ranking.rate_window", "soon")

	_, err := fromViper(v)
	require.Error(t, err)
}

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("GEMA_JWT_SECRET", "from-env")
	t.Setenv("GEMA_RANKING_RATE_LIMIT", "12")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.JWTSecret)
	require.Equal(t, 12, cfg.RankingRateLimit)
}
