package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Dataflow/internal/domain"
)

// AppRepo — репозиторий для работы с app_registrations.
type AppRepo struct {
	pool *pgxpool.Pool
}

// NewAppRepo создаёт новый AppRepo.
func NewAppRepo(pool *pgxpool.Pool) *AppRepo {
	return &AppRepo{pool: pool}
}

// Register сохраняет регистрацию приложения.
//
// Если IsDefault=true, флаг снимается с остальных версий в той же транзакции.
// Первая зарегистрированная версия всегда становится версией по умолчанию.
func (r *AppRepo) Register(ctx context.Context, reg *domain.AppRegistration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM app_registrations WHERE name = $1 AND type = $2
	`, reg.Name, reg.Type).Scan(&existing)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if existing == 0 {
		reg.IsDefault = true
	}

	if reg.IsDefault {
		_, err = tx.Exec(ctx, `
			UPDATE app_registrations SET is_default = FALSE
			WHERE name = $1 AND type = $2
		`, reg.Name, reg.Type)
		if err != nil {
			return fmt.Errorf("reset default version: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO app_registrations (name, type, version, uri, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`, reg.Name, reg.Type, reg.Version, reg.URI, reg.IsDefault).Scan(&reg.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert app registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetDefault возвращает версию приложения по умолчанию.
func (r *AppRepo) GetDefault(ctx context.Context, name string, appType domain.AppType) (*domain.AppRegistration, error) {
	query := `
		SELECT name, type, version, uri, is_default, created_at
		FROM app_registrations
		WHERE name = $1 AND type = $2 AND is_default
	`
	return r.scanRegistration(r.pool.QueryRow(ctx, query, name, appType))
}

// GetVersion возвращает конкретную версию приложения.
func (r *AppRepo) GetVersion(ctx context.Context, name string, appType domain.AppType, version string) (*domain.AppRegistration, error) {
	query := `
		SELECT name, type, version, uri, is_default, created_at
		FROM app_registrations
		WHERE name = $1 AND type = $2 AND version = $3
	`
	return r.scanRegistration(r.pool.QueryRow(ctx, query, name, appType, version))
}

// List возвращает все регистрации. Пустой appType — без фильтра по типу.
func (r *AppRepo) List(ctx context.Context, appType domain.AppType) ([]domain.AppRegistration, error) {
	query := `
		SELECT name, type, version, uri, is_default, created_at
		FROM app_registrations
		WHERE ($1::text = '' OR type = $1::text)
		ORDER BY name ASC, type ASC, version ASC
	`
	rows, err := r.pool.Query(ctx, query, string(appType))
	if err != nil {
		return nil, fmt.Errorf("list app registrations: %w", err)
	}
	defer rows.Close()

	var regs []domain.AppRegistration
	for rows.Next() {
		var reg domain.AppRegistration
		if err := rows.Scan(
			&reg.Name,
			&reg.Type,
			&reg.Version,
			&reg.URI,
			&reg.IsDefault,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan app registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// --- Helpers ---

func (r *AppRepo) scanRegistration(row pgx.Row) (*domain.AppRegistration, error) {
	var reg domain.AppRegistration
	err := row.Scan(
		&reg.Name,
		&reg.Type,
		&reg.Version,
		&reg.URI,
		&reg.IsDefault,
		&reg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan app registration: %w", err)
	}
	return &reg, nil
}
