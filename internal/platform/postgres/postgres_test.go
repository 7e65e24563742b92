package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{URL: "postgres://localhost/knights", PingTimeout: 1, MaxOpenConns: 4, MaxIdleConns: 2}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"missing url":       func(c *Config) { c.URL = "" },
		"zero ping timeout": func(c *Config) { c.PingTimeout = 0 },
		"no open conns":     func(c *Config) { c.MaxOpenConns = 0 },
		"negative idle":     func(c *Config) { c.MaxIdleConns = -1 },
		"idle above open":   func(c *Config) { c.MaxIdleConns = 5 },
		"negative lifetime": func(c *Config) { c.ConnMaxLifetime = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigFromEnvRejectsInconsistentPool(t *testing.T) {
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "2")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "3")

	_, err := ConfigFromEnv()
	assert.ErrorContains(t, err, "DATABASE_MAX_IDLE_CONNS")
}
