package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Dataflow/internal/domain"
)

func TestMemoryDefinitionRepo(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryDefinitionRepo()

	_, err := r.GetByName(ctx, "etl")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Create(ctx, &domain.TaskDefinition{Name: "etl", DSL: "a | b"}))
	require.NoError(t, r.Create(ctx, &domain.TaskDefinition{Name: "backup", DSL: "dump"}))
	assert.ErrorIs(t, r.Create(ctx, &domain.TaskDefinition{Name: "etl", DSL: "c"}), ErrAlreadyExists)

	def, err := r.GetByName(ctx, "etl")
	require.NoError(t, err)
	assert.Equal(t, "a | b", def.DSL)
	assert.False(t, def.CreatedAt.IsZero())

	defs, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "backup", defs[0].Name)
	assert.Equal(t, "etl", defs[1].Name)
}

func TestMemoryAppRepo_DefaultVersion(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryAppRepo()

	v1 := &domain.AppRegistration{Name: "extract", Type: domain.AppTypeTask, Version: "1.0", URI: "docker:org/extract:1.0"}
	require.NoError(t, r.Register(ctx, v1))
	assert.True(t, v1.IsDefault, "first version becomes default")

	v2 := &domain.AppRegistration{Name: "extract", Type: domain.AppTypeTask, Version: "2.0", URI: "docker:org/extract:2.0"}
	require.NoError(t, r.Register(ctx, v2))

	def, err := r.GetDefault(ctx, "extract", domain.AppTypeTask)
	require.NoError(t, err)
	assert.Equal(t, "1.0", def.Version)

	v3 := &domain.AppRegistration{Name: "extract", Type: domain.AppTypeTask, Version: "3.0", URI: "docker:org/extract:3.0", IsDefault: true}
	require.NoError(t, r.Register(ctx, v3))

	def, err = r.GetDefault(ctx, "extract", domain.AppTypeTask)
	require.NoError(t, err)
	assert.Equal(t, "3.0", def.Version)

	got, err := r.GetVersion(ctx, "extract", domain.AppTypeTask, "2.0")
	require.NoError(t, err)
	assert.Equal(t, "docker:org/extract:2.0", got.URI)

	assert.ErrorIs(t, r.Register(ctx, &domain.AppRegistration{Name: "extract", Type: domain.AppTypeTask, Version: "2.0"}), ErrAlreadyExists)

	_, err = r.GetDefault(ctx, "extract", domain.AppTypeApp)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetVersion(ctx, "extract", domain.AppTypeTask, "9.9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAppRepo_List(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryAppRepo()

	require.NoError(t, r.Register(ctx, &domain.AppRegistration{Name: "load", Type: domain.AppTypeTask, Version: "1"}))
	require.NoError(t, r.Register(ctx, &domain.AppRegistration{Name: "extract", Type: domain.AppTypeApp, Version: "1"}))
	require.NoError(t, r.Register(ctx, &domain.AppRegistration{Name: "extract", Type: domain.AppTypeTask, Version: "1"}))

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "extract", all[0].Name)
	assert.Equal(t, domain.AppTypeApp, all[0].Type)
	assert.Equal(t, "load", all[2].Name)

	tasks, err := r.List(ctx, domain.AppTypeTask)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
