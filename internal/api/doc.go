// Package api реализует HTTP API сервиса валидации задач.
//
// Маршруты:
//   - GET  /api/v1/tasks/validation/{name}   — отчёт валидации определения
//   - GET  /api/v1/tasks/definitions         — список определений
//   - POST /api/v1/tasks/definitions         — создание определения (DSL проверяется)
//   - GET  /api/v1/tasks/definitions/{name}  — определение по имени
//   - GET  /api/v1/apps                      — список регистраций (?type=app|task)
//   - POST /api/v1/apps                      — регистрация приложения
//
// Ответы оборачиваются в {"data": ...}, ошибки — в {"error": {"code", "message"}}.
package api
