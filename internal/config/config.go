// Package config читает конфигурацию dataflow-api из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Режимы хранилища.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config — конфигурация dataflow-api.
type Config struct {
	// Addr — адрес HTTP-сервера (":8080"). Env: API_PORT.
	Addr string

	// Store — "postgres" или "memory". Env: STORE.
	Store string

	// DatabaseURL — строка подключения к PostgreSQL. Env: DB_URL.
	DatabaseURL string

	// SeedFile — YAML с определениями и регистрациями для начальной загрузки. Env: SEED_FILE.
	SeedFile string

	// AMQPURL — адрес RabbitMQ. Пусто — события не публикуются. Env: AMQP_URL.
	AMQPURL string

	// LookupTimeout — таймаут одного запроса к реестру. Env: VALIDATION_LOOKUP_TIMEOUT.
	LookupTimeout time.Duration

	// MaxConcurrency — число параллельных запросов к реестру. Env: VALIDATION_MAX_CONCURRENCY.
	MaxConcurrency int

	// ResolverHTTPTimeout — таймаут HTTP-проверки артефакта. Env: RESOLVER_HTTP_TIMEOUT.
	ResolverHTTPTimeout time.Duration

	// DockerRegistryURL — Docker Registry API для проверки образов. Env: DOCKER_REGISTRY_URL.
	DockerRegistryURL string

	// MavenRepoURL — Maven-репозиторий для проверки jar. Env: MAVEN_REPO_URL.
	MavenRepoURL string
}

// Load читает конфигурацию из окружения.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:              ":8080",
		Store:             StorePostgres,
		DatabaseURL:       getenv("DB_URL"),
		SeedFile:          getenv("SEED_FILE"),
		AMQPURL:           getenv("AMQP_URL"),
		DockerRegistryURL: getenv("DOCKER_REGISTRY_URL"),
		MavenRepoURL:      getenv("MAVEN_REPO_URL"),
	}

	if v := getenv("API_PORT"); v != "" {
		cfg.Addr = ":" + v
	}

	switch v := getenv("STORE"); v {
	case "", StorePostgres:
	case StoreMemory:
		cfg.Store = StoreMemory
	default:
		return Config{}, fmt.Errorf("STORE: unknown store %q", v)
	}

	var err error
	if cfg.LookupTimeout, err = duration(getenv, "VALIDATION_LOOKUP_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ResolverHTTPTimeout, err = duration(getenv, "RESOLVER_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}

	cfg.MaxConcurrency = 8
	if v := getenv("VALIDATION_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("VALIDATION_MAX_CONCURRENCY: must be a positive integer, got %q", v)
		}
		cfg.MaxConcurrency = n
	}

	return cfg, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: must be a positive duration, got %q", key, v)
	}
	return d, nil
}
