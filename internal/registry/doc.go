// Package registry определяет состояние регистрации приложений.
//
// Включает:
//   - lookup.go   — интерфейс Lookup и Registry (хранилище + резолвер артефактов)
//   - resolver.go — проверка доступности артефакта по URI (docker, http, file, maven)
//   - memory.go   — in-memory реализация Lookup для тестов и режима STORE=memory
//
// Отсутствие приложения в реестре — нормальный результат (NOT_REGISTERED),
// а не ошибка. Ошибку Lookup возвращает только при сбое хранилища
// или отмене контекста.
package registry
