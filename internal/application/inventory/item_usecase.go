package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/inventory"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/pkg/clock"
	"github.com/jhoicas/inventario-core/pkg/validator"
)

// defaultLowStockThreshold umbral aplicado cuando el alta no lo especifica.
const defaultLowStockThreshold = 10

// lowStockLimit límite de filas para GetLowStockItems (0 = sin límite).
const lowStockLimit = 0

// ItemUseCase ciclo de vida de los ítems: alta, edición parcial, borrado y consultas puntuales.
// El alta con stock inicial registra el movimiento INIT en la misma transacción.
type ItemUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	clock        clock.Clock
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	clk clock.Clock,
) *ItemUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	return &ItemUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		clock:        clk,
	}
}

// Create da de alta un ítem. El SKU se guarda en mayúsculas y debe ser único entre ítems no eliminados.
// Si quantity > 0 se fija LastRestocked y se agrega un movimiento inbound "INIT-<SKU>" a nombre de actorID.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actorID string) (*dto.ItemResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	if err := inventory.ValidateUnitPrice(in.UnitPrice); err != nil {
		return nil, err
	}
	sku := inventory.NormalizeSKU(in.SKU)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku es requerido", domain.ErrInvalidInput)
	}
	if in.Quantity > 0 && actorID == "" {
		return nil, fmt.Errorf("%w: se requiere el usuario que registra el stock inicial", domain.ErrInvalidInput)
	}
	threshold := defaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	category, supplier, err := uc.resolveRefs(ctx, in.CategoryID, in.SupplierID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(in.Name),
		SKU:               sku,
		Description:       in.Description,
		CategoryID:        category.ID,
		Quantity:          in.Quantity,
		LowStockThreshold: threshold,
		UnitPrice:         in.UnitPrice,
		SupplierID:        supplier.ID,
		Location:          in.Location,
		Status:            inventory.DeriveStatus(in.Quantity, threshold),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if item.Quantity > 0 {
		item.LastRestocked = &now
	}

	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		existing, err := itemRepo.GetActiveBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrConflict, sku)
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrConflict, sku)
			}
			return err
		}
		if item.Quantity == 0 {
			return nil
		}
		ref, err := initialReference(ctx, movRepo, item)
		if err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.Movement{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			Type:         entity.MovementTypeInbound,
			Quantity:     item.Quantity,
			UserID:       actorID,
			Reference:    ref,
			Notes:        inventory.InitialStockNotes,
			MovementDate: now,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := toItemResponse(item, category.Name, supplier.Name)
	return &out, nil
}

// initialReference usa "INIT-<SKU>"; si ya existe (SKU reutilizado tras un borrado lógico)
// agrega el prefijo del ID del ítem para mantener la referencia única.
func initialReference(ctx context.Context, movRepo repository.MovementRepository, item *entity.Item) (string, error) {
	ref := inventory.InitialReference(item.SKU)
	taken, err := movRepo.ExistsReference(ctx, ref)
	if err != nil {
		return "", err
	}
	if taken {
		ref = ref + "-" + item.ID[:8]
	}
	return ref, nil
}

// GetItem devuelve el ítem (también si está eliminado lógicamente) con nombres de categoría y proveedor.
func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*dto.ItemResponse, error) {
	d, err := uc.itemRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
	}
	out := toItemDetailResponse(d)
	return &out, nil
}

// Update aplica una actualización parcial. Solo cambian los campos enviados; strings vacíos se ignoran.
// Si se envía quantity > 0 se fija LastRestocked. El estado se recalcula siempre. No genera movimientos.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	if in.UnitPrice != nil {
		if err := inventory.ValidateUnitPrice(*in.UnitPrice); err != nil {
			return nil, err
		}
	}
	var categoryID, supplierID string
	if supplied(in.CategoryID) {
		categoryID = *in.CategoryID
	}
	if supplied(in.SupplierID) {
		supplierID = *in.SupplierID
	}
	if categoryID != "" || supplierID != "" {
		if _, _, err := uc.resolveOptionalRefs(ctx, categoryID, supplierID); err != nil {
			return nil, err
		}
	}

	var item *entity.ItemDetail
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.MovementRepository) error {
		current, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil || current.IsDeleted() {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
		}
		now := uc.clock.Now()

		if supplied(in.Name) {
			current.Name = strings.TrimSpace(*in.Name)
		}
		if supplied(in.SKU) {
			sku := inventory.NormalizeSKU(*in.SKU)
			if sku != current.SKU {
				other, err := itemRepo.GetActiveBySKU(ctx, sku)
				if err != nil {
					return err
				}
				if other != nil && other.ID != current.ID {
					return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrConflict, sku)
				}
				current.SKU = sku
			}
		}
		if supplied(in.Description) {
			current.Description = *in.Description
		}
		if categoryID != "" {
			current.CategoryID = categoryID
		}
		if supplierID != "" {
			current.SupplierID = supplierID
		}
		if supplied(in.Location) {
			current.Location = *in.Location
		}
		if in.UnitPrice != nil {
			current.UnitPrice = *in.UnitPrice
		}
		if in.LowStockThreshold != nil {
			current.LowStockThreshold = *in.LowStockThreshold
		}
		if in.Quantity != nil {
			current.Quantity = *in.Quantity
			if current.Quantity > 0 {
				current.LastRestocked = &now
			}
		}
		current.Status = inventory.DeriveStatus(current.Quantity, current.LowStockThreshold)
		current.UpdatedAt = now

		if err := itemRepo.Update(ctx, current); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrConflict, current.SKU)
			}
			return err
		}
		item, err = itemRepo.GetDetail(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toItemDetailResponse(item)
	return &out, nil
}

// Delete borra el ítem: lógico (status "deleted") si tiene movimientos, físico si no.
// Devuelve soft=true cuando el borrado fue lógico.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (soft bool, err error) {
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil || item.IsDeleted() {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
		}
		count, err := movRepo.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count == 0 {
			return itemRepo.Delete(ctx, id)
		}
		item.Status = entity.ItemStatusDeleted
		item.UpdatedAt = uc.clock.Now()
		soft = true
		return itemRepo.Update(ctx, item)
	})
	if err != nil {
		return false, err
	}
	return soft, nil
}

// CheckSkuExists indica si el SKU (sin distinguir mayúsculas) lo usa algún ítem no eliminado.
func (uc *ItemUseCase) CheckSkuExists(ctx context.Context, sku string) (bool, error) {
	normalized := inventory.NormalizeSKU(sku)
	if normalized == "" {
		return false, fmt.Errorf("%w: sku es requerido", domain.ErrInvalidInput)
	}
	item, err := uc.itemRepo.GetActiveBySKU(ctx, normalized)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

// GetTotalInventoryValue suma quantity * unit_price de los ítems no eliminados, redondeado a 2 decimales.
func (uc *ItemUseCase) GetTotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	total, err := uc.itemRepo.TotalValue(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// GetLowStockItems ítems con quantity <= threshold que no están agotados ni eliminados.
func (uc *ItemUseCase) GetLowStockItems(ctx context.Context) ([]dto.ItemResponse, error) {
	list, err := uc.itemRepo.ListLowStock(ctx, lowStockLimit)
	if err != nil {
		return nil, err
	}
	return ItemResponses(list), nil
}

// resolveRefs valida que categoría y proveedor existan (ambos obligatorios en el alta).
func (uc *ItemUseCase) resolveRefs(ctx context.Context, categoryID, supplierID string) (*entity.Category, *entity.Supplier, error) {
	if categoryID == "" || supplierID == "" {
		return nil, nil, fmt.Errorf("%w: category_id y supplier_id son requeridos", domain.ErrInvalidInput)
	}
	return uc.resolveOptionalRefs(ctx, categoryID, supplierID)
}

// resolveOptionalRefs valida solo los IDs no vacíos.
func (uc *ItemUseCase) resolveOptionalRefs(ctx context.Context, categoryID, supplierID string) (*entity.Category, *entity.Supplier, error) {
	var category *entity.Category
	var supplier *entity.Supplier
	var err error
	if categoryID != "" {
		if category, err = uc.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, nil, err
		}
		if category == nil {
			return nil, nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidInput, categoryID)
		}
	}
	if supplierID != "" {
		if supplier, err = uc.supplierRepo.GetByID(ctx, supplierID); err != nil {
			return nil, nil, err
		}
		if supplier == nil {
			return nil, nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, supplierID)
		}
	}
	return category, supplier, nil
}

// supplied: nil y "" cuentan como campo no enviado.
func supplied(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
