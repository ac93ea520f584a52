package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Dataflow/internal/domain"
)

// DefinitionRepo — репозиторий для работы с task_definitions.
type DefinitionRepo struct {
	pool *pgxpool.Pool
}

// NewDefinitionRepo создаёт новый DefinitionRepo.
func NewDefinitionRepo(pool *pgxpool.Pool) *DefinitionRepo {
	return &DefinitionRepo{pool: pool}
}

// Create сохраняет новое определение задачи.
func (r *DefinitionRepo) Create(ctx context.Context, def *domain.TaskDefinition) error {
	query := `
		INSERT INTO task_definitions (name, dsl, description, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		def.Name,
		def.DSL,
		def.Description,
	).Scan(&def.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert task definition: %w", err)
	}
	return nil
}

// GetByName возвращает определение по имени.
func (r *DefinitionRepo) GetByName(ctx context.Context, name string) (*domain.TaskDefinition, error) {
	query := `
		SELECT name, dsl, description, created_at
		FROM task_definitions
		WHERE name = $1
	`
	var def domain.TaskDefinition
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&def.Name,
		&def.DSL,
		&def.Description,
		&def.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task definition by name: %w", err)
	}
	return &def, nil
}

// List возвращает все определения, отсортированные по имени.
func (r *DefinitionRepo) List(ctx context.Context) ([]domain.TaskDefinition, error) {
	query := `
		SELECT name, dsl, description, created_at
		FROM task_definitions
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list task definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.TaskDefinition
	for rows.Next() {
		var def domain.TaskDefinition
		if err := rows.Scan(
			&def.Name,
			&def.DSL,
			&def.Description,
			&def.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}
