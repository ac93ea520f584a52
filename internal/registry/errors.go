package registry

import "errors"

// Ошибки резолвинга артефактов.
var (
	// ErrUnsupportedScheme — схема URI не поддерживается.
	ErrUnsupportedScheme = errors.New("unsupported artifact scheme")

	// ErrBadReference — URI артефакта синтаксически некорректен.
	ErrBadReference = errors.New("bad artifact reference")

	// ErrArtifactNotFound — артефакт по URI не найден.
	ErrArtifactNotFound = errors.New("artifact not found")
)
