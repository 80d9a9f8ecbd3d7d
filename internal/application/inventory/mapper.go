package inventory

import (
	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
)

func toItemResponse(i *entity.Item, categoryName, supplierName string) dto.ItemResponse {
	return dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		SKU:               i.SKU,
		Description:       i.Description,
		CategoryID:        i.CategoryID,
		CategoryName:      categoryName,
		Quantity:          i.Quantity,
		LowStockThreshold: i.LowStockThreshold,
		UnitPrice:         i.UnitPrice,
		TotalValue:        i.TotalValue(),
		SupplierID:        i.SupplierID,
		SupplierName:      supplierName,
		Location:          i.Location,
		Status:            i.Status,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
		LastRestocked:     i.LastRestocked,
	}
}

func toItemDetailResponse(d *entity.ItemDetail) dto.ItemResponse {
	return toItemResponse(&d.Item, d.CategoryName, d.SupplierName)
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		UserID:       m.UserID,
		Reference:    m.Reference,
		Notes:        m.Notes,
		MovementDate: m.MovementDate,
		CreatedAt:    m.CreatedAt,
	}
}

func toMovementDetailResponse(d *entity.MovementDetail) dto.MovementResponse {
	out := toMovementResponse(&d.Movement)
	out.ItemName = d.ItemName
	out.ItemSKU = d.ItemSKU
	out.UserName = d.UserName
	return out
}

// MovementResponses convierte un listado del ledger a DTOs.
func MovementResponses(list []*entity.MovementDetail) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementDetailResponse(m))
	}
	return out
}

// ItemResponses convierte un listado de ítems con nombres resueltos a DTOs.
func ItemResponses(list []*entity.ItemDetail) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toItemDetailResponse(d))
	}
	return out
}
