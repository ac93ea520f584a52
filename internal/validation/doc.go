// Package validation проверяет, что приложения определения задачи
// зарегистрированы и их артефакты доступны.
//
// Алгоритм ValidateTask:
//  1. Найти определение по имени (нет — ErrTaskDefinitionNotFound)
//  2. Разобрать DSL (ошибка — InternalError, данные в хранилище испорчены)
//  3. Параллельно запросить реестр для каждого шага
//  4. Собрать отчёт в порядке DSL
//
// Ошибка запроса к реестру для одного приложения даёт статус "invalid"
// и не прерывает валидацию. Отмена контекста или истечение таймаута
// прерывает весь вызов с ErrTimeout, частичный отчёт не возвращается.
//
// Service не хранит состояния между вызовами и безопасен
// для конкурентного использования.
package validation
