package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/dsl"
	"github.com/shaiso/Dataflow/internal/registry"
	"github.com/shaiso/Dataflow/internal/repo"
	"github.com/shaiso/Dataflow/internal/telemetry"
)

type fixture struct {
	defs     *repo.MemoryDefinitionRepo
	registry *registry.Memory
	notifier *recordingNotifier
	service  *Service
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		defs:     repo.NewMemoryDefinitionRepo(),
		registry: registry.NewMemory(),
		notifier: &recordingNotifier{},
	}
	f.service = NewService(Config{
		Definitions:   f.defs,
		Registry:      f.registry,
		Notifier:      f.notifier,
		Metrics:       telemetry.NewMetrics(prometheus.NewRegistry()),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		LookupTimeout: timeout,
	})
	return f
}

func (f *fixture) define(t *testing.T, name, dslText string) {
	t.Helper()
	require.NoError(t, f.defs.Create(context.Background(), &domain.TaskDefinition{Name: name, DSL: dslText}))
}

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []*domain.ValidationStatus
	err      error
}

func (n *recordingNotifier) PublishTaskValidated(_ context.Context, status *domain.ValidationStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.statuses)
}

// erroringStore возвращает ошибку хранилища.
type erroringStore struct{ err error }

func (s erroringStore) GetByName(context.Context, string) (*domain.TaskDefinition, error) {
	return nil, s.err
}

func TestValidateTask_ETLScenario(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract | transform | load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.Set("load", domain.AppTypeTask, domain.RegistrationInvalid)

	status, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)

	assert.Equal(t, "etl", status.DefinitionName)
	assert.Equal(t, "extract | transform | load", status.DefinitionDSL)
	assert.Equal(t, []string{"extract", "transform", "load"}, status.Keys())
	assert.Equal(t, map[string]string{
		"extract":   "valid",
		"transform": "invalid",
		"load":      "invalid",
	}, status.Statuses())

	assert.Equal(t, domain.RegistrationValid, status.AppStatuses[0].State)
	assert.Equal(t, domain.RegistrationMissing, status.AppStatuses[1].State)
	assert.Equal(t, domain.RegistrationInvalid, status.AppStatuses[2].State)
	assert.False(t, status.IsValid())
	assert.Equal(t, 1, f.notifier.count())
}

func TestValidateTask_EntryPerStepInOrder(t *testing.T) {
	f := newFixture(t, time.Second)

	var parts []string
	var want []string
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("app-%02d", i)
		parts = append(parts, name)
		want = append(want, name)
		if i%2 == 0 {
			f.registry.Set(name, domain.AppTypeTask, domain.RegistrationValid)
		}
		// Нечётные отвечают быстрее, чтобы перемешать порядок завершения.
		f.registry.SetDelay(name, domain.AppTypeTask, time.Duration(25-i)*time.Millisecond)
	}
	dslText := parts[0]
	for _, p := range parts[1:] {
		dslText += " && " + p
	}
	f.define(t, "wide", dslText)

	status, err := f.service.ValidateTask(context.Background(), "wide")
	require.NoError(t, err)

	require.Len(t, status.AppStatuses, 25)
	assert.Equal(t, want, status.Keys())
	for i, s := range status.AppStatuses {
		if i%2 == 0 {
			assert.Equal(t, domain.StatusValid, s.Status, s.Step.Role)
		} else {
			assert.Equal(t, domain.StatusInvalid, s.Status, s.Step.Role)
		}
	}
}

func TestValidateTask_AllValid(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "ok", "ingest: app/extract && task/load")
	f.registry.Set("extract", domain.AppTypeApp, domain.RegistrationValid)
	f.registry.Set("load", domain.AppTypeTask, domain.RegistrationValid)

	status, err := f.service.ValidateTask(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, []string{"ingest", "load"}, status.Keys())
	assert.True(t, status.IsValid())
}

func TestValidateTask_QualifierUsesVersion(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "pinned", "extract@2.0 | load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationInvalid)
	f.registry.SetVersion("extract", domain.AppTypeTask, "2.0", domain.RegistrationValid)
	f.registry.Set("load", domain.AppTypeTask, domain.RegistrationValid)

	status, err := f.service.ValidateTask(context.Background(), "pinned")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"extract": "valid", "load": "valid"}, status.Statuses())
}

func TestValidateTask_Idempotent(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract | transform | load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)

	first, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)
	second, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestValidateTask_ReflectsRegistryChanges(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract")

	status, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)
	assert.Equal(t, "invalid", status.Statuses()["extract"])

	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)

	status, err = f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)
	assert.Equal(t, "valid", status.Statuses()["extract"])
}

func TestValidateTask_NotFound(t *testing.T) {
	f := newFixture(t, time.Second)

	for _, name := range []string{"nonexistent", ""} {
		status, err := f.service.ValidateTask(context.Background(), name)
		assert.Nil(t, status)
		assert.ErrorIs(t, err, ErrTaskDefinitionNotFound)
	}
	assert.Equal(t, 0, f.registry.Calls())
	assert.Equal(t, 0, f.notifier.count())
}

func TestValidateTask_MalformedDSL(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "broken", "extract |")

	status, err := f.service.ValidateTask(context.Background(), "broken")
	assert.Nil(t, status)

	var internal *InternalError
	require.ErrorAs(t, err, &internal)
	assert.Equal(t, "broken", internal.Name)

	var malformed *dsl.MalformedDSLError
	assert.ErrorAs(t, err, &malformed)
	assert.ErrorIs(t, err, dsl.ErrTrailingOperator)
	assert.NotErrorIs(t, err, ErrTaskDefinitionNotFound)
	assert.Equal(t, 0, f.registry.Calls())
}

func TestValidateTask_StoreFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(Config{
		Definitions: erroringStore{err: boom},
		Registry:    registry.NewMemory(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := svc.ValidateTask(context.Background(), "etl")

	var internal *InternalError
	require.ErrorAs(t, err, &internal)
	assert.ErrorIs(t, err, boom)
}

func TestValidateTask_LookupErrorIsInvalid(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract | transform | load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.Set("load", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.SetError("transform", domain.AppTypeTask, errors.New("registry unreachable"))

	status, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"extract":   "valid",
		"transform": "invalid",
		"load":      "valid",
	}, status.Statuses())
	assert.Equal(t, domain.RegistrationUnknown, status.AppStatuses[1].State)
}

func TestValidateTask_LookupTimeout(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)
	f.define(t, "etl", "extract | transform | load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.Set("transform", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.SetDelay("transform", domain.AppTypeTask, time.Hour)

	start := time.Now()
	status, err := f.service.ValidateTask(context.Background(), "etl")

	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 0, f.notifier.count())
}

func TestValidateTask_CallerDeadline(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.define(t, "etl", "extract | transform")
	f.registry.SetDelay("transform", domain.AppTypeTask, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	status, err := f.service.ValidateTask(ctx, "etl")
	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestValidateTask_CallerCancelled(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := f.service.ValidateTask(ctx, "etl")
	assert.Nil(t, status)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateTask_NotifierFailureIgnored(t *testing.T) {
	f := newFixture(t, time.Second)
	f.notifier.err = errors.New("broker down")
	f.define(t, "etl", "extract")

	status, err := f.service.ValidateTask(context.Background(), "etl")
	require.NoError(t, err)
	assert.Len(t, status.AppStatuses, 1)
	assert.Equal(t, 1, f.notifier.count())
}

func TestValidateTask_Concurrent(t *testing.T) {
	f := newFixture(t, time.Second)
	f.define(t, "etl", "extract | transform | load")
	f.define(t, "single", "load")
	f.registry.Set("extract", domain.AppTypeTask, domain.RegistrationValid)
	f.registry.Set("load", domain.AppTypeTask, domain.RegistrationValid)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		name := "etl"
		want := 3
		if i%2 == 1 {
			name, want = "single", 1
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := f.service.ValidateTask(context.Background(), name)
			if err != nil {
				errs <- err
				return
			}
			if len(status.AppStatuses) != want {
				errs <- fmt.Errorf("%s: got %d entries, want %d", name, len(status.AppStatuses), want)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, telemetry.ResultOK, resultLabel(nil))
	assert.Equal(t, telemetry.ResultNotFound, resultLabel(fmt.Errorf("%w: x", ErrTaskDefinitionNotFound)))
	assert.Equal(t, telemetry.ResultTimeout, resultLabel(fmt.Errorf("%w: x", ErrTimeout)))
	assert.Equal(t, telemetry.ResultInternal, resultLabel(&InternalError{Name: "x", Err: errors.New("boom")}))
}
