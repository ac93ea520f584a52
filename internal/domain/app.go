package domain

import "time"

// AppType — тип приложения в реестре.
type AppType string

const (
	// AppTypeApp — долгоживущее приложение.
	AppTypeApp AppType = "app"

	// AppTypeTask — короткоживущее приложение-задача.
	AppTypeTask AppType = "task"
)

// IsValid возвращает true для известных типов.
func (t AppType) IsValid() bool {
	switch t {
	case AppTypeApp, AppTypeTask:
		return true
	default:
		return false
	}
}

// ParseAppType парсит строку в AppType.
// Второе значение false, если тип неизвестен.
func ParseAppType(s string) (AppType, bool) {
	t := AppType(s)
	return t, t.IsValid()
}

// AppRegistration — регистрация приложения в реестре.
//
// Одно приложение (name + type) может иметь несколько версий,
// одна из которых помечена как версия по умолчанию.
type AppRegistration struct {
	// Name — имя приложения.
	Name string `json:"name"`

	// Type — тип приложения.
	Type AppType `json:"type"`

	// Version — версия артефакта.
	Version string `json:"version"`

	// URI — ссылка на артефакт:
	//   docker:org/image:tag
	//   https://repo.example.com/app.jar
	//   file:///opt/apps/app.jar
	//   maven://group:artifact:version
	URI string `json:"uri"`

	// IsDefault — версия, используемая при отсутствии qualifier в DSL.
	IsDefault bool `json:"is_default"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}
