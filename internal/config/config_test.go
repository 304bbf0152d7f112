package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(`
[storage]
catalog_file = "catalog.toml"
`)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, LockerLocal, cfg.Locker.Driver)
	assert.Equal(t, 30, cfg.Scheduling.SlotGranularityMinutes)
	assert.Equal(t, 3, cfg.Scheduling.Retries())
	assert.True(t, cfg.Scheduling.EarlyCompletion())
	assert.Equal(t, 8, cfg.Scheduling.StartHour())
	assert.Equal(t, 60, cfg.Scheduling.PixelsPerHour)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "scheduling-service", cfg.Events.ClientID)
}

func TestParse_ExplicitZeroes(t *testing.T) {
	cfg, err := Parse(`
[storage]
catalog_file = "catalog.toml"

[scheduling]
commit_retries = 0
allow_early_completion = false
day_start_hour = 0
`)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Scheduling.Retries())
	assert.False(t, cfg.Scheduling.EarlyCompletion())
	assert.Equal(t, 0, cfg.Scheduling.StartHour())
}

func TestLoad_Postgres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
http_port = 9090

[database]
host = "localhost"
user = "scheduler"
password = "secret"
dbname = "scheduling"

[storage]
driver = "postgres"

[locker]
driver = "redis"
redis_addr = "localhost:6379"

[events]
enabled = true
kafka_brokers = "localhost:9092,localhost:9093"
topic = "appointments"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "host=localhost port=5432 user=scheduler password=secret dbname=scheduling sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, LockerRedis, cfg.Locker.Driver)
	assert.Equal(t, 5000, cfg.Locker.WaitTimeoutMs)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "memory without catalog", data: ``},
		{name: "unknown storage", data: "[storage]\ndriver = \"mongo\""},
		{name: "postgres without host", data: "[storage]\ndriver = \"postgres\"\n[database]\ndbname = \"x\""},
		{name: "granularity too small", data: "[storage]\ncatalog_file = \"c.toml\"\n[scheduling]\nslot_granularity_minutes = 1"},
		{name: "negative retries", data: "[storage]\ncatalog_file = \"c.toml\"\n[scheduling]\ncommit_retries = -1"},
		{name: "events without topic", data: "[storage]\ncatalog_file = \"c.toml\"\n[events]\nenabled = true\nkafka_brokers = \"k:9092\""},
		{name: "redis without addr", data: "[storage]\ncatalog_file = \"c.toml\"\n[locker]\ndriver = \"redis\""},
		{name: "bad port", data: "[storage]\ncatalog_file = \"c.toml\"\n[server]\nhttp_port = 70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
