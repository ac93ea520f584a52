package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/repo"
)

// Lookup определяет состояние регистрации приложения.
//
// Должен учитывать отмену ctx: при отмене возвращает ctx.Err().
type Lookup interface {
	Lookup(ctx context.Context, appName string, appType domain.AppType) (domain.RegistrationState, error)
}

// VersionLookup — Lookup с поддержкой конкретной версии (qualifier в DSL).
type VersionLookup interface {
	Lookup
	LookupVersion(ctx context.Context, appName string, appType domain.AppType, version string) (domain.RegistrationState, error)
}

// AppStore — хранилище регистраций приложений.
// Отсутствие записи сигнализируется repo.ErrNotFound.
type AppStore interface {
	GetDefault(ctx context.Context, name string, appType domain.AppType) (*domain.AppRegistration, error)
	GetVersion(ctx context.Context, name string, appType domain.AppType, version string) (*domain.AppRegistration, error)
}

// Resolver проверяет, что артефакт по URI существует.
// nil — артефакт доступен.
type Resolver interface {
	Resolve(ctx context.Context, uri string) error
}

// Registry — Lookup поверх хранилища регистраций и резолвера артефактов.
type Registry struct {
	store    AppStore
	resolver Resolver
	logger   *slog.Logger
}

// NewRegistry создаёт новый Registry.
func NewRegistry(store AppStore, resolver Resolver, logger *slog.Logger) *Registry {
	return &Registry{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// Lookup возвращает состояние версии приложения по умолчанию.
func (r *Registry) Lookup(ctx context.Context, appName string, appType domain.AppType) (domain.RegistrationState, error) {
	reg, err := r.store.GetDefault(ctx, appName, appType)
	return r.check(ctx, reg, err)
}

// LookupVersion возвращает состояние конкретной версии приложения.
func (r *Registry) LookupVersion(ctx context.Context, appName string, appType domain.AppType, version string) (domain.RegistrationState, error) {
	reg, err := r.store.GetVersion(ctx, appName, appType, version)
	return r.check(ctx, reg, err)
}

func (r *Registry) check(ctx context.Context, reg *domain.AppRegistration, err error) (domain.RegistrationState, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return domain.RegistrationMissing, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("get registration: %w", err)
	}

	if err := r.resolver.Resolve(ctx, reg.URI); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		r.logger.Debug("artifact not resolvable",
			"app", reg.Name,
			"type", reg.Type,
			"version", reg.Version,
			"uri", reg.URI,
			"error", err,
		)
		return domain.RegistrationInvalid, nil
	}

	return domain.RegistrationValid, nil
}
