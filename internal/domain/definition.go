package domain

import "time"

// TaskDefinition — именованное определение задачи.
//
// Определение хранит DSL-выражение, описывающее последовательность
// приложений. Для сервиса валидации определение доступно только на чтение.
type TaskDefinition struct {
	// Name — уникальное имя определения (например, "etl", "nightly-report").
	Name string `json:"name"`

	// DSL — исходное DSL-выражение, например "extract | transform | load".
	DSL string `json:"dsl"`

	// Description — описание назначения задачи.
	Description string `json:"description,omitempty"`

	// CreatedAt — время создания определения.
	CreatedAt time.Time `json:"created_at"`
}

// AppStep — один шаг, разобранный из DSL.
//
// Порядок шагов совпадает с порядком объявления в DSL.
type AppStep struct {
	// Role — метка шага, если задана, иначе имя приложения.
	// Используется как ключ в отчёте валидации.
	Role string `json:"role"`

	// AppName — имя приложения в реестре.
	AppName string `json:"app_name"`

	// AppType — тип приложения: "app" или "task".
	AppType AppType `json:"app_type"`

	// Qualifier — версия приложения (app@1.2.0), пусто если не указана.
	Qualifier string `json:"qualifier,omitempty"`

	// Args — аргументы шага (--key=value).
	Args map[string]string `json:"args,omitempty"`
}

// Reference возвращает ссылку на приложение в виде "type:name[@qualifier]".
func (s AppStep) Reference() string {
	ref := string(s.AppType) + ":" + s.AppName
	if s.Qualifier != "" {
		ref += "@" + s.Qualifier
	}
	return ref
}
