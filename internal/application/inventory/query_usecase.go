package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

// ItemQueryUseCase lectura filtrada, ordenada y paginada de ítems.
type ItemQueryUseCase struct {
	itemRepo repository.ItemRepository
}

// NewItemQueryUseCase construye el caso de uso.
func NewItemQueryUseCase(itemRepo repository.ItemRepository) *ItemQueryUseCase {
	return &ItemQueryUseCase{itemRepo: itemRepo}
}

// ListItems aplica búsqueda (nombre, SKU, descripción, ubicación), filtros de categoría y estado,
// orden con desempate por id y paginación. Sin filtro de estado se excluyen los eliminados.
func (uc *ItemQueryUseCase) ListItems(ctx context.Context, params dto.ItemQueryParams) (*dto.ItemListResponse, error) {
	filter, err := buildItemFilter(params)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items:        ItemResponses(list),
		PageResponse: dto.NewPageResponse(params.Page, params.PageSize, total),
	}, nil
}

func buildItemFilter(params dto.ItemQueryParams) (repository.ItemFilter, error) {
	if params.Page <= 0 || params.PageSize <= 0 {
		return repository.ItemFilter{}, fmt.Errorf("%w: page y page_size deben ser >= 1", domain.ErrInvalidInput)
	}
	category := strings.TrimSpace(params.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	status := strings.ToLower(strings.TrimSpace(params.Status))
	switch status {
	case "", "all":
		status = ""
	case entity.ItemStatusInStock, entity.ItemStatusLowStock, entity.ItemStatusOutOfStock, entity.ItemStatusDeleted:
	default:
		return repository.ItemFilter{}, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, params.Status)
	}
	return repository.ItemFilter{
		Search:     strings.ToLower(strings.TrimSpace(params.Search)),
		Category:   category,
		Status:     status,
		SortBy:     normalizeItemSort(params.SortBy),
		Descending: params.SortDescending,
		Limit:      params.PageSize,
		Offset:     (params.Page - 1) * params.PageSize,
	}, nil
}

func normalizeItemSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case repository.ItemSortSKU:
		return repository.ItemSortSKU
	case repository.ItemSortQuantity:
		return repository.ItemSortQuantity
	case repository.ItemSortValue:
		return repository.ItemSortValue
	case repository.ItemSortLastUpdated:
		return repository.ItemSortLastUpdated
	default:
		return repository.ItemSortName
	}
}
