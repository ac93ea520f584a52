// Package mq публикует события валидации в RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange, очереди и привязки
//   - publisher.go  — публикация событий
//
// Типы сообщений:
//   - task.validated — построен отчёт валидации определения задачи
//
// Exchanges:
//   - dataflow.tasks — события задач
//
// Публикация необязательна: без AMQP_URL сервис работает без событий.
package mq
