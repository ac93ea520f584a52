package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/repo"
)

// ListApps возвращает регистрации приложений.
// GET /api/v1/apps?type=app|task
func (h *Handler) ListApps(w http.ResponseWriter, r *http.Request) {
	var appType domain.AppType
	if v := r.URL.Query().Get("type"); v != "" {
		t, ok := domain.ParseAppType(v)
		if !ok {
			BadRequest(w, "invalid type, expected app or task")
			return
		}
		appType = t
	}

	apps, err := h.apps.List(r.Context(), appType)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AppResponse, len(apps))
	for i, a := range apps {
		result[i] = AppFromDomain(a)
	}

	List(w, result, len(result))
}

// RegisterApp регистрирует версию приложения.
// POST /api/v1/apps
func (h *Handler) RegisterApp(w http.ResponseWriter, r *http.Request) {
	var req RegisterAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	appType, ok := domain.ParseAppType(req.Type)
	switch {
	case req.Name == "":
		BadRequest(w, "name is required")
		return
	case !ok:
		BadRequest(w, "invalid type, expected app or task")
		return
	case req.Version == "":
		BadRequest(w, "version is required")
		return
	case req.URI == "":
		BadRequest(w, "uri is required")
		return
	}

	reg := &domain.AppRegistration{
		Name:      req.Name,
		Type:      appType,
		Version:   req.Version,
		URI:       req.URI,
		IsDefault: req.IsDefault,
	}

	err := h.apps.Register(r.Context(), reg)
	if errors.Is(err, repo.ErrAlreadyExists) {
		Conflict(w, "app "+req.Type+":"+req.Name+"@"+req.Version+" already registered")
		return
	}
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, AppFromDomain(*reg))
}
