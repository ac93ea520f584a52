package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 10*time.Second, cfg.ResolverHTTPTimeout)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"API_PORT":                   "9090",
		"STORE":                      "memory",
		"SEED_FILE":                  "seed.yaml",
		"AMQP_URL":                   "amqp://localhost:5672/",
		"VALIDATION_LOOKUP_TIMEOUT":  "250ms",
		"VALIDATION_MAX_CONCURRENCY": "2",
		"DOCKER_REGISTRY_URL":        "https://registry.example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
	assert.Equal(t, "amqp://localhost:5672/", cfg.AMQPURL)
	assert.Equal(t, 250*time.Millisecond, cfg.LookupTimeout)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "https://registry.example.com", cfg.DockerRegistryURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown store":    {"STORE": "redis"},
		"bad timeout":      {"VALIDATION_LOOKUP_TIMEOUT": "soon"},
		"negative timeout": {"RESOLVER_HTTP_TIMEOUT": "-1s"},
		"zero concurrency": {"VALIDATION_MAX_CONCURRENCY": "0"},
		"bad concurrency":  {"VALIDATION_MAX_CONCURRENCY": "many"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(env(vars))
			assert.Error(t, err)
		})
	}
}
