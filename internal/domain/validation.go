package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotObject — JSON-значение не является объектом.
var ErrNotObject = errors.New("json value is not an object")

// AppStatus — результат проверки одного шага DSL.
type AppStatus struct {
	// Step — разобранный шаг.
	Step AppStep `json:"step"`

	// Status — "valid" или "invalid".
	Status string `json:"status"`

	// State — исходное состояние регистрации (для диагностики).
	State RegistrationState `json:"state"`
}

// ValidationStatus — отчёт валидации определения задачи.
//
// Создаётся заново на каждый запрос и после создания не меняется.
// AppStatuses содержит ровно одну запись на каждый шаг DSL в порядке разбора.
type ValidationStatus struct {
	// DefinitionName — имя определения.
	DefinitionName string `json:"definition_name"`

	// DefinitionDSL — DSL определения.
	DefinitionDSL string `json:"definition_dsl"`

	// AppStatuses — статусы приложений в порядке DSL.
	AppStatuses []AppStatus `json:"app_statuses"`
}

// Keys возвращает роли шагов в порядке DSL.
func (v *ValidationStatus) Keys() []string {
	keys := make([]string, len(v.AppStatuses))
	for i, s := range v.AppStatuses {
		keys[i] = s.Step.Role
	}
	return keys
}

// Statuses возвращает map роль → статус.
func (v *ValidationStatus) Statuses() map[string]string {
	m := make(map[string]string, len(v.AppStatuses))
	for _, s := range v.AppStatuses {
		m[s.Step.Role] = s.Status
	}
	return m
}

// Ordered возвращает упорядоченный map роль → статус.
func (v *ValidationStatus) Ordered() *OrderedStatuses {
	o := NewOrderedStatuses()
	for _, s := range v.AppStatuses {
		o.Set(s.Step.Role, s.Status)
	}
	return o
}

// IsValid возвращает true, если все приложения валидны.
func (v *ValidationStatus) IsValid() bool {
	for _, s := range v.AppStatuses {
		if s.Status != StatusValid {
			return false
		}
	}
	return true
}

// OrderedStatuses — упорядоченный map роль → значение.
// Сериализуется в JSON-объект с сохранением порядка ключей.
type OrderedStatuses struct {
	keys   []string
	values map[string]string
}

// NewOrderedStatuses создаёт пустой OrderedStatuses.
func NewOrderedStatuses() *OrderedStatuses {
	return &OrderedStatuses{values: make(map[string]string)}
}

// Set добавляет или обновляет значение. Новые ключи идут в конец.
func (o *OrderedStatuses) Set(key, value string) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get возвращает значение по ключу.
func (o *OrderedStatuses) Get(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys возвращает ключи в порядке добавления.
func (o *OrderedStatuses) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len возвращает количество записей.
func (o *OrderedStatuses) Len() int {
	return len(o.keys)
}

// MarshalJSON сериализует map с сохранением порядка ключей.
func (o *OrderedStatuses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON разбирает JSON-объект, сохраняя порядок ключей.
func (o *OrderedStatuses) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}

	o.keys = nil
	o.values = make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		o.Set(key, value)
	}
	_, err = dec.Token()
	return err
}
