package usecase

import (
	"context"
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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	itemRepo repository.ItemRepository
	clock    clock.Clock
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, itemRepo repository.ItemRepository, clk clock.Clock) *SupplierUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &SupplierUseCase{repo: repo, itemRepo: itemRepo, clock: clk}
}

// List lista proveedores; status ("active"|"inactive"|"all"|"") filtra por estado.
func (uc *SupplierUseCase) List(ctx context.Context, status string) ([]dto.SupplierResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", "all":
		status = ""
	case entity.SupplierStatusActive, entity.SupplierStatusInactive:
	default:
		return nil, fmt.Errorf("%w: estado de proveedor desconocido %q", domain.ErrInvalidInput, status)
	}
	list, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// GetByID obtiene un proveedor; ErrNotFound si no existe.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	out := toSupplierResponse(s)
	return &out, nil
}

// Create crea un proveedor activo con email único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un proveedor con email %s", domain.ErrConflict, email)
	}
	now := uc.clock.Now()
	s := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		Address:       in.Address,
		Status:        entity.SupplierStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, conflictOr(err, "ya existe un proveedor con email %s", email)
	}
	out := toSupplierResponse(s)
	return &out, nil
}

// Update modifica los campos enviados; strings vacíos no modifican.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != s.Email {
		other, err := uc.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != s.ID {
			return nil, fmt.Errorf("%w: ya existe un proveedor con email %s", domain.ErrConflict, email)
		}
		s.Email = email
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		s.Name = v
	}
	if v := strings.TrimSpace(in.ContactPerson); v != "" {
		s.ContactPerson = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		s.Phone = v
	}
	if in.Address != "" {
		s.Address = in.Address
	}
	if in.Status != "" {
		s.Status = in.Status
	}
	s.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, conflictOr(err, "ya existe un proveedor con email %s", s.Email)
	}
	out := toSupplierResponse(s)
	return &out, nil
}

// Delete elimina el proveedor. ErrConflict si algún ítem lo referencia.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	n, err := uc.itemRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el proveedor tiene %d ítems asociados", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

// Stats conteos de proveedores por estado.
func (uc *SupplierUseCase) Stats(ctx context.Context) (*dto.SupplierStatsResponse, error) {
	list, err := uc.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := &dto.SupplierStatsResponse{TotalSuppliers: len(list)}
	for _, s := range list {
		if s.Status == entity.SupplierStatusActive {
			out.ActiveSuppliers++
		} else {
			out.InactiveSuppliers++
		}
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Status:        s.Status,
		ItemsSupplied: s.ItemsSupplied,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
