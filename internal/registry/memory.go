package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shaiso/Dataflow/internal/domain"
)

type memoryKey struct {
	name    string
	appType domain.AppType
	version string
}

// Memory — in-memory реализация VersionLookup.
//
// Позволяет задать состояние, задержку или ошибку для отдельного приложения.
// Безопасна для конкурентного использования.
type Memory struct {
	mu     sync.RWMutex
	states map[memoryKey]domain.RegistrationState
	delays map[memoryKey]time.Duration
	errs   map[memoryKey]error

	calls atomic.Int64
}

// NewMemory создаёт пустой Memory.
func NewMemory() *Memory {
	return &Memory{
		states: make(map[memoryKey]domain.RegistrationState),
		delays: make(map[memoryKey]time.Duration),
		errs:   make(map[memoryKey]error),
	}
}

// Set задаёт состояние версии по умолчанию.
func (m *Memory) Set(name string, appType domain.AppType, state domain.RegistrationState) {
	m.SetVersion(name, appType, "", state)
}

// SetVersion задаёт состояние конкретной версии.
func (m *Memory) SetVersion(name string, appType domain.AppType, version string, state domain.RegistrationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[memoryKey{name, appType, version}] = state
}

// SetDelay задаёт задержку ответа для версии по умолчанию.
func (m *Memory) SetDelay(name string, appType domain.AppType, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[memoryKey{name, appType, ""}] = d
}

// SetError задаёт ошибку, возвращаемую для версии по умолчанию.
func (m *Memory) SetError(name string, appType domain.AppType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[memoryKey{name, appType, ""}] = err
}

// Calls возвращает количество вызовов Lookup и LookupVersion.
func (m *Memory) Calls() int {
	return int(m.calls.Load())
}

// Lookup реализует Lookup.
func (m *Memory) Lookup(ctx context.Context, appName string, appType domain.AppType) (domain.RegistrationState, error) {
	return m.lookup(ctx, memoryKey{appName, appType, ""})
}

// LookupVersion реализует VersionLookup.
func (m *Memory) LookupVersion(ctx context.Context, appName string, appType domain.AppType, version string) (domain.RegistrationState, error) {
	return m.lookup(ctx, memoryKey{appName, appType, version})
}

func (m *Memory) lookup(ctx context.Context, key memoryKey) (domain.RegistrationState, error) {
	m.calls.Add(1)

	m.mu.RLock()
	delay := m.delays[key]
	injected := m.errs[key]
	state, ok := m.states[key]
	m.mu.RUnlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if injected != nil {
		return "", injected
	}
	if !ok {
		return domain.RegistrationMissing, nil
	}
	return state, nil
}
