package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/dsl"
	"github.com/shaiso/Dataflow/internal/registry"
	"github.com/shaiso/Dataflow/internal/repo"
	"github.com/shaiso/Dataflow/internal/telemetry"
)

const (
	defaultLookupTimeout  = 5 * time.Second
	defaultMaxConcurrency = 8
	notifyTimeout         = 5 * time.Second
)

// DefinitionStore — хранилище определений задач (только чтение).
// Отсутствие определения сигнализируется repo.ErrNotFound.
type DefinitionStore interface {
	GetByName(ctx context.Context, name string) (*domain.TaskDefinition, error)
}

// Notifier получает каждый построенный отчёт (например, публикует событие в RabbitMQ).
type Notifier interface {
	PublishTaskValidated(ctx context.Context, status *domain.ValidationStatus) error
}

// Config — зависимости и настройки Service.
type Config struct {
	Definitions DefinitionStore
	Registry    registry.Lookup

	// Notifier — опционально.
	Notifier Notifier

	// Metrics — опционально.
	Metrics *telemetry.Metrics

	Logger *slog.Logger

	// LookupTimeout — таймаут одного запроса к реестру. Default: 5s.
	LookupTimeout time.Duration

	// MaxConcurrency — максимум параллельных запросов к реестру. Default: 8.
	MaxConcurrency int
}

// Service — сервис валидации определений задач.
type Service struct {
	definitions    DefinitionStore
	registry       registry.Lookup
	notifier       Notifier
	metrics        *telemetry.Metrics
	logger         *slog.Logger
	lookupTimeout  time.Duration
	maxConcurrency int
}

// NewService создаёт новый Service.
func NewService(cfg Config) *Service {
	s := &Service{
		definitions:    cfg.Definitions,
		registry:       cfg.Registry,
		notifier:       cfg.Notifier,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		lookupTimeout:  cfg.LookupTimeout,
		maxConcurrency: cfg.MaxConcurrency,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.lookupTimeout <= 0 {
		s.lookupTimeout = defaultLookupTimeout
	}
	if s.maxConcurrency <= 0 {
		s.maxConcurrency = defaultMaxConcurrency
	}
	return s
}

// ValidateTask строит отчёт валидации для определения name.
//
// Ошибки:
//   - ErrTaskDefinitionNotFound — определение не найдено
//   - *InternalError — DSL не разбирается или хранилище недоступно
//   - ErrTimeout — отмена ctx или таймаут запроса к реестру
func (s *Service) ValidateTask(ctx context.Context, name string) (*domain.ValidationStatus, error) {
	start := time.Now()
	logger := telemetry.WithTaskName(telemetry.FromContextOr(ctx, s.logger), name)

	status, err := s.validate(ctx, logger, name)
	s.metrics.ObserveValidation(resultLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	logger.Debug("task validated",
		"apps", len(status.AppStatuses),
		"valid", status.IsValid(),
		"duration", time.Since(start),
	)

	s.notify(ctx, logger, status)
	return status, nil
}

func (s *Service) validate(ctx context.Context, logger *slog.Logger, name string) (*domain.ValidationStatus, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrTaskDefinitionNotFound)
	}

	def, err := s.definitions.GetByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTaskDefinitionNotFound, name)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
		}
		return nil, &InternalError{Name: name, Err: fmt.Errorf("get definition: %w", err)}
	}

	steps, err := dsl.Parse(def.DSL)
	if err != nil {
		logger.Error("stored task definition has malformed dsl",
			"dsl", def.DSL,
			"error", err,
		)
		return nil, &InternalError{Name: name, Err: err}
	}

	statuses, err := s.lookupAll(ctx, logger, steps)
	if err != nil {
		return nil, err
	}

	return &domain.ValidationStatus{
		DefinitionName: def.Name,
		DefinitionDSL:  def.DSL,
		AppStatuses:    statuses,
	}, nil
}

// lookupAll опрашивает реестр параллельно и собирает результаты в порядке steps.
func (s *Service) lookupAll(ctx context.Context, logger *slog.Logger, steps []domain.AppStep) ([]domain.AppStatus, error) {
	statuses := make([]domain.AppStatus, len(steps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, step := range steps {
		g.Go(func() error {
			state, err := s.lookup(gctx, logger, step)
			if err != nil {
				return err
			}
			statuses[i] = domain.AppStatus{
				Step:   step,
				Status: state.Status(),
				State:  state,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// lookup возвращает состояние одного приложения.
// Ошибку возвращает только при отмене ctx или истечении таймаута.
func (s *Service) lookup(ctx context.Context, logger *slog.Logger, step domain.AppStep) (domain.RegistrationState, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	start := time.Now()
	var state domain.RegistrationState
	var err error
	if vl, ok := s.registry.(registry.VersionLookup); ok && step.Qualifier != "" {
		state, err = vl.LookupVersion(lookupCtx, step.AppName, step.AppType, step.Qualifier)
	} else {
		state, err = s.registry.Lookup(lookupCtx, step.AppName, step.AppType)
	}

	if err == nil {
		s.metrics.ObserveLookup(state.String(), time.Since(start))
		return state, nil
	}
	s.metrics.ObserveLookup("error", time.Since(start))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
	}
	if errors.Is(lookupCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("%w: lookup %s exceeded %s", ErrTimeout, step.Reference(), s.lookupTimeout)
	}

	logger.Warn("app lookup failed",
		"role", step.Role,
		"app", step.Reference(),
		"error", err,
	)
	return domain.RegistrationUnknown, nil
}

// notify передаёт отчёт Notifier. Ошибка публикации не влияет на результат.
func (s *Service) notify(ctx context.Context, logger *slog.Logger, status *domain.ValidationStatus) {
	if s.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.PublishTaskValidated(notifyCtx, status); err != nil {
		logger.Warn("failed to publish validation event", "error", err)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return telemetry.ResultOK
	case errors.Is(err, ErrTaskDefinitionNotFound):
		return telemetry.ResultNotFound
	case errors.Is(err, ErrTimeout):
		return telemetry.ResultTimeout
	default:
		return telemetry.ResultInternal
	}
}
