package dsl

import (
	"errors"
	"fmt"
)

// Ошибки разбора DSL.
var (
	// ErrEmptyDSL — DSL пуст (или содержит только комментарии).
	ErrEmptyDSL = errors.New("dsl is empty")

	// ErrUnexpectedToken — токен в недопустимой позиции.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrTrailingOperator — оператор без правого операнда.
	ErrTrailingOperator = errors.New("trailing operator")

	// ErrUnterminatedQuote — незакрытая кавычка в значении аргумента.
	ErrUnterminatedQuote = errors.New("unterminated quote")

	// ErrUnmatchedSplit — незакрытая или лишняя угловая скобка.
	ErrUnmatchedSplit = errors.New("unmatched split bracket")

	// ErrBadQualifier — "@" без версии.
	ErrBadQualifier = errors.New("bad qualifier")

	// ErrBadArgument — аргумент не в форме --key=value.
	ErrBadArgument = errors.New("bad argument")

	// ErrDuplicateRole — одинаковые роли у нескольких шагов.
	ErrDuplicateRole = errors.New("duplicate role")

	// ErrUnknownAppType — неизвестный префикс типа приложения.
	ErrUnknownAppType = errors.New("unknown app type")
)

// MalformedDSLError — ошибка разбора с позицией в исходной строке.
type MalformedDSLError struct {
	Pos     int    // смещение в байтах
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *MalformedDSLError) Error() string {
	return fmt.Sprintf("malformed dsl at %d: %s", e.Pos, e.Message)
}

// Unwrap возвращает базовую ошибку.
func (e *MalformedDSLError) Unwrap() error {
	return e.Err
}

func newError(pos int, err error, format string, args ...any) *MalformedDSLError {
	return &MalformedDSLError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
