package api

import (
	"net/http"

	"github.com/shaiso/Dataflow/internal/telemetry"
)

// ValidateTask возвращает отчёт валидации приложений определения.
// GET /api/v1/tasks/validation/{name}
func (h *Handler) ValidateTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		BadRequest(w, "task definition name is required")
		return
	}

	status, err := h.validator.ValidateTask(r.Context(), name)
	if HandleValidationError(w, telemetry.FromContextOr(r.Context(), h.logger), err) {
		return
	}

	Success(w, TaskAppStatusFromDomain(status))
}
