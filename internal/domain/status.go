package domain

// RegistrationState — состояние регистрации приложения.
//
//	NOT_REGISTERED      — записи в реестре нет
//	REGISTERED_INVALID  — запись есть, но артефакт не резолвится
//	REGISTERED_VALID    — запись есть, артефакт доступен
//	LOOKUP_FAILED       — реестр не ответил (только диагностика)
type RegistrationState string

const (
	// RegistrationValid — приложение зарегистрировано, артефакт доступен.
	RegistrationValid RegistrationState = "REGISTERED_VALID"

	// RegistrationInvalid — приложение зарегистрировано, но артефакт недоступен.
	RegistrationInvalid RegistrationState = "REGISTERED_INVALID"

	// RegistrationMissing — приложение не зарегистрировано.
	RegistrationMissing RegistrationState = "NOT_REGISTERED"

	// RegistrationUnknown — запрос к реестру завершился ошибкой.
	// Только для диагностики, в статусе отчёта даёт "invalid".
	RegistrationUnknown RegistrationState = "LOOKUP_FAILED"
)

// String возвращает строковое представление RegistrationState.
func (s RegistrationState) String() string {
	return string(s)
}

// Статусы приложения в отчёте валидации.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// Status сводит состояние регистрации к статусу отчёта.
// Всё, кроме REGISTERED_VALID, даёт "invalid".
func (s RegistrationState) Status() string {
	if s == RegistrationValid {
		return StatusValid
	}
	return StatusInvalid
}
