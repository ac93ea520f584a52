// Package telemetry обеспечивает наблюдаемость сервиса.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики валидации и HTTP
//
// Метрики экспортируются на /metrics endpoint.
package telemetry
