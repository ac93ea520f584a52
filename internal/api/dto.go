package api

import (
	"time"

	"github.com/shaiso/Dataflow/internal/domain"
)

// Validation DTOs

// TaskAppStatusResponse — отчёт валидации определения задачи.
type TaskAppStatusResponse struct {
	DefinitionName string                  `json:"definition_name"`
	DefinitionDSL  string                  `json:"definition_dsl"`
	AppStatuses    *domain.OrderedStatuses `json:"app_statuses"`
	AppDetails     []AppStatusDetail       `json:"app_details"`
}

// AppStatusDetail — диагностика по одному шагу.
type AppStatusDetail struct {
	Role      string `json:"role"`
	App       string `json:"app"`
	Type      string `json:"type"`
	Qualifier string `json:"qualifier,omitempty"`
	Status    string `json:"status"`
	State     string `json:"state"`
}

// TaskAppStatusFromDomain конвертирует domain.ValidationStatus в TaskAppStatusResponse.
func TaskAppStatusFromDomain(v *domain.ValidationStatus) TaskAppStatusResponse {
	details := make([]AppStatusDetail, len(v.AppStatuses))
	for i, s := range v.AppStatuses {
		details[i] = AppStatusDetail{
			Role:      s.Step.Role,
			App:       s.Step.AppName,
			Type:      string(s.Step.AppType),
			Qualifier: s.Step.Qualifier,
			Status:    s.Status,
			State:     s.State.String(),
		}
	}

	return TaskAppStatusResponse{
		DefinitionName: v.DefinitionName,
		DefinitionDSL:  v.DefinitionDSL,
		AppStatuses:    v.Ordered(),
		AppDetails:     details,
	}
}

// Definition DTOs

// CreateDefinitionRequest — запрос на создание определения.
type CreateDefinitionRequest struct {
	Name        string `json:"name"`
	DSL         string `json:"dsl"`
	Description string `json:"description,omitempty"`
}

// DefinitionResponse — ответ с определением.
type DefinitionResponse struct {
	Name        string    `json:"name"`
	DSL         string    `json:"dsl"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefinitionFromDomain конвертирует domain.TaskDefinition в DefinitionResponse.
func DefinitionFromDomain(d domain.TaskDefinition) DefinitionResponse {
	return DefinitionResponse{
		Name:        d.Name,
		DSL:         d.DSL,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// App DTOs

// RegisterAppRequest — запрос на регистрацию приложения.
type RegisterAppRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Version   string `json:"version"`
	URI       string `json:"uri"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// AppResponse — ответ с регистрацией приложения.
type AppResponse struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Version   string    `json:"version"`
	URI       string    `json:"uri"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// AppFromDomain конвертирует domain.AppRegistration в AppResponse.
func AppFromDomain(a domain.AppRegistration) AppResponse {
	return AppResponse{
		Name:      a.Name,
		Type:      string(a.Type),
		Version:   a.Version,
		URI:       a.URI,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}
