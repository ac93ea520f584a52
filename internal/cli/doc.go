// Package cli реализует инструмент командной строки Dataflow.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Dataflow API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
//
// ## Client
//
// HTTP-клиент для Dataflow API. Инкапсулирует HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и ошибки API (*APIError, включая признак Retryable).
//
//	client := cli.NewClient("http://localhost:8080")
//	status, err := client.ValidateTask("etl")
//
// ## Output
//
// Форматирование вывода: таблицы (text/tabwriter) по умолчанию,
// JSON с флагом --json. Данные выводятся в stdout, сообщения — в stderr:
//
//	dataflow validate etl --json | jq .app_statuses
//
// ## Commands
//
//   - validate NAME [--strict]
//   - definition: list, create, show
//   - app: list, register
//
// Фабричные функции принимают clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
