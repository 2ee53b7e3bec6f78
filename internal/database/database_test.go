package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-arena-api/internal/models"
)

func TestConnectRedis(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "ping", "pong", 0).Err())
	value, err := server.Get("ping")
	require.NoError(t, err)
	require.Equal(t, "pong", value)
}

func TestConnectRedisRejectsBadInput(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "")
	require.Error(t, err)

	_, err = ConnectRedis(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnectPostgresRequiresDSN(t *testing.T) {
	_, err := ConnectPostgres("")
	require.Error(t, err)
}

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.True(t, db.Migrator().HasTable(&models.Submission{}))
	require.True(t, db.Migrator().HasTable(&models.PlatformScore{}))
	require.True(t, db.Migrator().HasIndex(&models.EventParticipation{}, "idx_participation_user_event"))
}
