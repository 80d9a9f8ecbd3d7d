package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/pkg/clock"
	"github.com/jhoicas/inventario-core/pkg/validator"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	itemRepo repository.ItemRepository
	clock    clock.Clock
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, itemRepo repository.ItemRepository, clk clock.Clock) *CategoryUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &CategoryUseCase{repo: repo, itemRepo: itemRepo, clock: clk}
}

// List devuelve todas las categorías con su conteo de ítems.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// GetByID obtiene una categoría; ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Create crea una categoría con nombre único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrConflict, name)
	}
	now := uc.clock.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, conflictOr(err, "la categoría %q ya existe", name)
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Update modifica nombre y/o descripción; strings vacíos no modifican.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		if !strings.EqualFold(name, c.Name) {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrConflict, name)
			}
		}
		c.Name = name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	c.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, conflictOr(err, "la categoría %q ya existe", c.Name)
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Delete elimina la categoría. ErrConflict si algún ítem (incluidos los eliminados lógicamente) la usa.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	n, err := uc.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: la categoría tiene %d ítems asociados", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   c.ItemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// conflictOr traduce ErrDuplicate del repositorio a ErrConflict con mensaje.
func conflictOr(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("%w: %s", domain.ErrConflict, fmt.Sprintf(format, args...))
	}
	return err
}
