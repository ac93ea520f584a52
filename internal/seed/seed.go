// Package seed загружает определения задач и регистрации приложений из YAML.
//
// Формат файла:
//
//	definitions:
//	  - name: etl
//	    dsl: extract | transform | load
//	    description: nightly import
//	apps:
//	  - name: extract
//	    type: task
//	    version: 1.0.0
//	    uri: docker:org/extract:1.0.0
//	    default: true
//
// Используется в режиме STORE=memory и для начального наполнения PostgreSQL.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Dataflow/internal/domain"
	"github.com/shaiso/Dataflow/internal/dsl"
	"github.com/shaiso/Dataflow/internal/repo"
)

// File — содержимое seed-файла.
type File struct {
	Definitions []Definition `yaml:"definitions"`
	Apps        []App        `yaml:"apps"`
}

// Definition — определение задачи в seed-файле.
type Definition struct {
	Name        string `yaml:"name"`
	DSL         string `yaml:"dsl"`
	Description string `yaml:"description"`
}

// App — регистрация приложения в seed-файле.
type App struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Version string `yaml:"version"`
	URI     string `yaml:"uri"`
	Default bool   `yaml:"default"`
}

// DefinitionWriter — хранилище, принимающее определения.
type DefinitionWriter interface {
	Create(ctx context.Context, def *domain.TaskDefinition) error
}

// AppWriter — хранилище, принимающее регистрации.
type AppWriter interface {
	Register(ctx context.Context, reg *domain.AppRegistration) error
}

// LoadFile читает и проверяет seed-файл.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode читает seed из r и проверяет его.
func Decode(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate проверяет обязательные поля, типы приложений и DSL определений.
func (f *File) Validate() error {
	for i, d := range f.Definitions {
		if d.Name == "" {
			return fmt.Errorf("definitions[%d]: name is required", i)
		}
		if err := dsl.Validate(d.DSL); err != nil {
			return fmt.Errorf("definitions[%d] %s: %w", i, d.Name, err)
		}
	}

	for i, a := range f.Apps {
		if a.Name == "" {
			return fmt.Errorf("apps[%d]: name is required", i)
		}
		if _, ok := domain.ParseAppType(a.Type); !ok {
			return fmt.Errorf("apps[%d] %s: unknown type %q", i, a.Name, a.Type)
		}
		if a.Version == "" || a.URI == "" {
			return fmt.Errorf("apps[%d] %s: version and uri are required", i, a.Name)
		}
	}
	return nil
}

// Apply записывает содержимое seed в хранилища.
// Уже существующие записи пропускаются, поэтому Apply можно повторять.
func (f *File) Apply(ctx context.Context, defs DefinitionWriter, apps AppWriter, logger *slog.Logger) error {
	var created, skipped int

	for _, d := range f.Definitions {
		err := defs.Create(ctx, &domain.TaskDefinition{
			Name:        d.Name,
			DSL:         d.DSL,
			Description: d.Description,
		})
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			skipped++
		case err != nil:
			return fmt.Errorf("create definition %s: %w", d.Name, err)
		default:
			created++
		}
	}

	for _, a := range f.Apps {
		err := apps.Register(ctx, &domain.AppRegistration{
			Name:      a.Name,
			Type:      domain.AppType(a.Type),
			Version:   a.Version,
			URI:       a.URI,
			IsDefault: a.Default,
		})
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			skipped++
		case err != nil:
			return fmt.Errorf("register app %s: %w", a.Name, err)
		default:
			created++
		}
	}

	logger.Info("seed applied", "created", created, "skipped", skipped)
	return nil
}
