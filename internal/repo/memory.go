package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shaiso/Dataflow/internal/domain"
)

// MemoryDefinitionRepo — in-memory аналог DefinitionRepo (режим STORE=memory).
type MemoryDefinitionRepo struct {
	mu   sync.RWMutex
	defs map[string]domain.TaskDefinition
}

// NewMemoryDefinitionRepo создаёт пустой MemoryDefinitionRepo.
func NewMemoryDefinitionRepo() *MemoryDefinitionRepo {
	return &MemoryDefinitionRepo{defs: make(map[string]domain.TaskDefinition)}
}

// Create сохраняет новое определение задачи.
func (r *MemoryDefinitionRepo) Create(_ context.Context, def *domain.TaskDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[def.Name]; ok {
		return ErrAlreadyExists
	}
	def.CreatedAt = time.Now()
	r.defs[def.Name] = *def
	return nil
}

// GetByName возвращает определение по имени.
func (r *MemoryDefinitionRepo) GetByName(_ context.Context, name string) (*domain.TaskDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &def, nil
}

// List возвращает все определения, отсортированные по имени.
func (r *MemoryDefinitionRepo) List(_ context.Context) ([]domain.TaskDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.TaskDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

type appKey struct {
	name    string
	appType domain.AppType
}

// MemoryAppRepo — in-memory аналог AppRepo (режим STORE=memory).
type MemoryAppRepo struct {
	mu   sync.RWMutex
	apps map[appKey][]domain.AppRegistration
}

// NewMemoryAppRepo создаёт пустой MemoryAppRepo.
func NewMemoryAppRepo() *MemoryAppRepo {
	return &MemoryAppRepo{apps: make(map[appKey][]domain.AppRegistration)}
}

// Register сохраняет регистрацию приложения.
// Семантика флага IsDefault совпадает с AppRepo.Register.
func (r *MemoryAppRepo) Register(_ context.Context, reg *domain.AppRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := appKey{reg.Name, reg.Type}
	versions := r.apps[key]
	for _, v := range versions {
		if v.Version == reg.Version {
			return ErrAlreadyExists
		}
	}

	if len(versions) == 0 {
		reg.IsDefault = true
	}
	if reg.IsDefault {
		for i := range versions {
			versions[i].IsDefault = false
		}
	}
	reg.CreatedAt = time.Now()
	r.apps[key] = append(versions, *reg)
	return nil
}

// GetDefault возвращает версию приложения по умолчанию.
func (r *MemoryAppRepo) GetDefault(_ context.Context, name string, appType domain.AppType) (*domain.AppRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.apps[appKey{name, appType}] {
		if v.IsDefault {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// GetVersion возвращает конкретную версию приложения.
func (r *MemoryAppRepo) GetVersion(_ context.Context, name string, appType domain.AppType, version string) (*domain.AppRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.apps[appKey{name, appType}] {
		if v.Version == version {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

// List возвращает все регистрации. Пустой appType — без фильтра по типу.
func (r *MemoryAppRepo) List(_ context.Context, appType domain.AppType) ([]domain.AppRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var regs []domain.AppRegistration
	for key, versions := range r.apps {
		if appType != "" && key.appType != appType {
			continue
		}
		regs = append(regs, versions...)
	}
	sort.Slice(regs, func(i, j int) bool {
		a, b := regs[i], regs[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Version < b.Version
	})
	return regs, nil
}
