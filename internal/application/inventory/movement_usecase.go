package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/inventory"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/pkg/clock"
	"github.com/jhoicas/inventario-core/pkg/validator"
)

// MovementUseCase ledger de movimientos de inventario.
//
// RecordMovement solo agrega al ledger (no toca la cantidad del ítem);
// AdjustStock registra el movimiento y aplica el cambio de stock en una sola transacción,
// con bloqueo de fila (SELECT FOR UPDATE) sobre el ítem.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	clock    clock.Clock
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, movRepo repository.MovementRepository, clk clock.Clock) *MovementUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &MovementUseCase{txRunner: txRunner, movRepo: movRepo, clock: clk}
}

// RecordMovement agrega un movimiento al ledger.
// ErrInvalidInput si quantity <= 0, el tipo es desconocido o el ítem no existe (o está eliminado);
// ErrConflict si la referencia ya está registrada.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest, actorID string) (*dto.MovementResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	movType := strings.ToLower(strings.TrimSpace(in.Type))
	if !entity.IsValidMovementType(movType) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if actorID == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	reference := strings.TrimSpace(in.Reference)

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.IsDeleted() {
			return fmt.Errorf("%w: ítem %s no existe", domain.ErrInvalidInput, in.ItemID)
		}
		mov = uc.newMovement(item.ID, movType, in.Quantity, actorID, reference, in.Notes)
		return createMovement(ctx, movRepo, mov)
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

// AdjustStock registra el movimiento y actualiza la cantidad del ítem de forma atómica.
// inbound suma, outbound resta (ErrInsufficientStock si no alcanza), adjustment aplica un delta con signo.
// Recalcula el estado y en entradas fija LastRestocked.
func (uc *MovementUseCase) AdjustStock(ctx context.Context, in dto.AdjustStockRequest, actorID string) (*dto.StockAdjustmentResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	movType := strings.ToLower(strings.TrimSpace(in.Type))
	if !entity.IsValidMovementType(movType) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, in.Type)
	}
	if actorID == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = generatedReference(movType)
	}

	var (
		mov  *entity.Movement
		item *entity.ItemDetail
	)
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		current, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if current == nil || current.IsDeleted() {
			return fmt.Errorf("%w: ítem %s no existe", domain.ErrInvalidInput, in.ItemID)
		}
		next, err := inventory.ApplyMovement(current.Quantity, movType, in.Quantity)
		if err != nil {
			return err
		}
		mov = uc.newMovement(current.ID, movType, in.Quantity, actorID, reference, in.Notes)
		if err := createMovement(ctx, movRepo, mov); err != nil {
			return err
		}
		current.Quantity = next
		current.Status = inventory.DeriveStatus(next, current.LowStockThreshold)
		current.UpdatedAt = mov.CreatedAt
		if movType == entity.MovementTypeInbound {
			restocked := mov.CreatedAt
			current.LastRestocked = &restocked
		}
		if err := itemRepo.Update(ctx, current); err != nil {
			return err
		}
		item, err = itemRepo.GetDetail(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockAdjustmentResponse{
		Movement: toMovementResponse(mov),
		Item:     toItemDetailResponse(item),
	}, nil
}

// ListMovements lista el ledger con filtros de ítem, tipo, rango de fechas y texto libre.
func (uc *MovementUseCase) ListMovements(ctx context.Context, params dto.MovementQueryParams) (*dto.MovementListResponse, error) {
	if params.Page <= 0 || params.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page y page_size deben ser >= 1", domain.ErrInvalidInput)
	}
	movType := strings.ToLower(strings.TrimSpace(params.Type))
	if movType == "all" {
		movType = ""
	}
	if movType != "" && !entity.IsValidMovementType(movType) {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, params.Type)
	}
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	desc := true
	if params.SortDescending != nil {
		desc = *params.SortDescending
	}
	filter := repository.MovementFilter{
		ItemID:     params.ItemID,
		Type:       movType,
		Search:     strings.ToLower(strings.TrimSpace(params.Search)),
		From:       params.StartDate,
		To:         params.EndDate,
		SortBy:     normalizeMovementSort(params.SortBy),
		Descending: desc,
		Limit:      params.PageSize,
		Offset:     (params.Page - 1) * params.PageSize,
	}
	list, total, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Movements:    MovementResponses(list),
		PageResponse: dto.NewPageResponse(params.Page, params.PageSize, total),
	}, nil
}

// MonthlySummary agrega por (año, mes, tipo) los movimientos con fecha en [from, to).
func (uc *MovementUseCase) MonthlySummary(ctx context.Context, from, to time.Time) ([]dto.MovementSummaryResponse, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: el rango de fechas es vacío", domain.ErrInvalidInput)
	}
	rows, err := uc.movRepo.MonthlySummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MovementSummaryResponse{
			Year:          r.Year,
			Month:         r.Month,
			Type:          r.Type,
			Count:         r.Count,
			TotalQuantity: r.TotalQuantity,
		})
	}
	return out, nil
}

func (uc *MovementUseCase) newMovement(itemID, movType string, quantity int, actorID, reference, notes string) *entity.Movement {
	now := uc.clock.Now()
	return &entity.Movement{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		Type:         movType,
		Quantity:     quantity,
		UserID:       actorID,
		Reference:    reference,
		Notes:        notes,
		MovementDate: now,
		CreatedAt:    now,
	}
}

// createMovement traduce la violación de unicidad de la referencia a ErrConflict.
func createMovement(ctx context.Context, movRepo repository.MovementRepository, mov *entity.Movement) error {
	if err := movRepo.Create(ctx, mov); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return fmt.Errorf("%w: la referencia %s ya existe", domain.ErrConflict, mov.Reference)
		}
		return err
	}
	return nil
}

// generatedReference referencia para ajustes enviados sin una: "<TIPO>-<12 hex>".
func generatedReference(movType string) string {
	prefix := map[string]string{
		entity.MovementTypeInbound:    "IN",
		entity.MovementTypeOutbound:   "OUT",
		entity.MovementTypeAdjustment: "ADJ",
	}[movType]
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

func normalizeMovementSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case repository.MovementSortQuantity:
		return repository.MovementSortQuantity
	case repository.MovementSortReference:
		return repository.MovementSortReference
	case repository.MovementSortType:
		return repository.MovementSortType
	default:
		return repository.MovementSortDate
	}
}
