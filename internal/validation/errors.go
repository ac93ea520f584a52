package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskDefinitionNotFound — определение с таким именем не существует.
	ErrTaskDefinitionNotFound = errors.New("task definition not found")

	// ErrTimeout — валидация не уложилась в отведённое время или была отменена.
	// Запрос можно повторить.
	ErrTimeout = errors.New("task validation timed out")
)

// InternalError — нарушение целостности данных или сбой хранилища.
//
// Например, DSL сохранённого определения не разбирается.
type InternalError struct {
	Name string // имя определения
	Err  error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *InternalError) Error() string {
	return fmt.Sprintf("task definition %s: %v", e.Name, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *InternalError) Unwrap() error {
	return e.Err
}
