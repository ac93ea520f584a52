package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/dsl"
	"github.com/shaiso/Dataflow/internal/repo"
)

// ListDefinitions возвращает список определений задач.
// GET /api/v1/tasks/definitions
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.definitions.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]DefinitionResponse, len(defs))
	for i, d := range defs {
		result[i] = DefinitionFromDomain(d)
	}

	List(w, result, len(result))
}

// CreateDefinition создаёт определение задачи.
// DSL разбирается до сохранения: некорректное определение не попадёт в хранилище.
// POST /api/v1/tasks/definitions
func (h *Handler) CreateDefinition(w http.ResponseWriter, r *http.Request) {
	var req CreateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if err := dsl.Validate(req.DSL); err != nil {
		BadRequest(w, err.Error())
		return
	}

	def := &domain.TaskDefinition{
		Name:        req.Name,
		DSL:         req.DSL,
		Description: req.Description,
	}

	err := h.definitions.Create(r.Context(), def)
	if errors.Is(err, repo.ErrAlreadyExists) {
		Conflict(w, "task definition "+req.Name+" already exists")
		return
	}
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, DefinitionFromDomain(*def))
}

// GetDefinition возвращает определение по имени.
// GET /api/v1/tasks/definitions/{name}
func (h *Handler) GetDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := h.definitions.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "task definition not found") {
		return
	}

	Success(w, DefinitionFromDomain(*def))
}
