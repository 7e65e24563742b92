package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 0, cfg.Seed)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KNIGHTS_ADDR", ":9090")
	t.Setenv("KNIGHTS_STORE", "Postgres")
	t.Setenv("KNIGHTS_SEED", "16")
	t.Setenv("KNIGHTS_REQUEST_TIMEOUT", "5s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 16, cfg.Seed)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown store":    {"KNIGHTS_STORE", "mongo"},
		"negative seed":    {"KNIGHTS_SEED", "-1"},
		"non-numeric seed": {"KNIGHTS_SEED", "many"},
		"bad timeout":      {"KNIGHTS_REQUEST_TIMEOUT", "soon"},
		"zero timeout":     {"KNIGHTS_REQUEST_TIMEOUT", "0s"},
		"zero shutdown":    {"KNIGHTS_SHUTDOWN_TIMEOUT", "0s"},
		"negative ttl":     {"KNIGHTS_CACHE_TTL", "-1m"},
		"empty addr":       {"KNIGHTS_ADDR", ""},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestBool(t *testing.T) {
	t.Setenv("KNIGHTS_FLAG", "true")
	v, err := Bool("KNIGHTS_FLAG", false)
	require.NoError(t, err)
	assert.True(t, v)

	t.Setenv("KNIGHTS_FLAG", "maybe")
	_, err = Bool("KNIGHTS_FLAG", false)
	assert.Error(t, err)

	v, err = Bool("KNIGHTS_UNSET_FLAG", true)
	require.NoError(t, err)
	assert.True(t, v)
}
