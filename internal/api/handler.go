package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/telemetry"
)

// Validator — сервис валидации определений задач.
type Validator interface {
	ValidateTask(ctx context.Context, name string) (*domain.ValidationStatus, error)
}

// DefinitionStore — хранилище определений задач.
type DefinitionStore interface {
	Create(ctx context.Context, def *domain.TaskDefinition) error
	GetByName(ctx context.Context, name string) (*domain.TaskDefinition, error)
	List(ctx context.Context) ([]domain.TaskDefinition, error)
}

// AppStore — хранилище регистраций приложений.
type AppStore interface {
	Register(ctx context.Context, reg *domain.AppRegistration) error
	List(ctx context.Context, appType domain.AppType) ([]domain.AppRegistration, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	validator   Validator
	definitions DefinitionStore
	apps        AppStore
	metrics     *telemetry.Metrics
	logger      *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Validator   Validator
	Definitions DefinitionStore
	Apps        AppStore
	Metrics     *telemetry.Metrics
	Logger      *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		validator:   cfg.Validator,
		definitions: cfg.Definitions,
		apps:        cfg.Apps,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}
