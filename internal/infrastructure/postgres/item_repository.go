package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `i.id::text, i.name, i.sku, i.description, i.category_id::text, i.quantity, i.low_stock_threshold,
	i.unit_price, i.supplier_id::text, i.location, i.status, i.created_at, i.updated_at, i.last_restocked`

const itemDetailColumns = itemColumns + `, COALESCE(c.name, ''), COALESCE(s.name, '')`

const itemDetailFrom = `
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id
	LEFT JOIN suppliers  s ON s.id = i.supplier_id`

func scanItem(row pgx.Row, it *entity.Item, extra ...any) error {
	dest := []any{
		&it.ID, &it.Name, &it.SKU, &it.Description, &it.CategoryID, &it.Quantity, &it.LowStockThreshold,
		&it.UnitPrice, &it.SupplierID, &it.Location, &it.Status, &it.CreatedAt, &it.UpdatedAt, &it.LastRestocked,
	}
	return row.Scan(append(dest, extra...)...)
}

// Create persiste un nuevo ítem. ErrDuplicate si el SKU lo usa otro ítem no eliminado.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, name, sku, description, category_id, quantity, low_stock_threshold, unit_price,
		                   supplier_id, location, status, created_at, updated_at, last_restocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.SKU, it.Description, it.CategoryID, it.Quantity, it.LowStockThreshold, it.UnitPrice,
		it.SupplierID, it.Location, it.Status, it.CreatedAt, it.UpdatedAt, it.LastRestocked,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o proveedor inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID (incluidos los eliminados lógicamente).
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items i WHERE i.id = $1`, id)
}

// GetDetail obtiene el ítem desnormalizado con los nombres de categoría y proveedor.
func (r *ItemRepo) GetDetail(ctx context.Context, id string) (*entity.ItemDetail, error) {
	var d entity.ItemDetail
	row := r.q.QueryRow(ctx, `SELECT `+itemDetailColumns+itemDetailFrom+` WHERE i.id = $1`, id)
	if err := scanItem(row, &d.Item, &d.CategoryName, &d.SupplierName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item detail: %w", err)
	}
	return &d, nil
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items i WHERE i.id = $1 FOR UPDATE`, id)
}

// GetActiveBySKU busca por SKU sin distinguir mayúsculas entre ítems no eliminados.
func (r *ItemRepo) GetActiveBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE upper(i.sku) = upper($1) AND i.status <> 'deleted'`, sku)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg string) (*entity.Item, error) {
	var it entity.Item
	if err := scanItem(r.q.QueryRow(ctx, query, arg), &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update reemplaza los campos editables del ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $2, sku = $3, description = $4, category_id = $5, quantity = $6,
		       low_stock_threshold = $7, unit_price = $8, supplier_id = $9, location = $10, status = $11,
		       updated_at = $12, last_restocked = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.SKU, it.Description, it.CategoryID, it.Quantity,
		it.LowStockThreshold, it.UnitPrice, it.SupplierID, it.Location, it.Status,
		it.UpdatedAt, it.LastRestocked,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría o proveedor inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente el ítem. ErrConflict si tiene movimientos.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el ítem tiene movimientos", domain.ErrConflict)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List aplica filtros, orden y paginación; devuelve la página y el total sin paginar.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.ItemDetail, int, error) {
	where, args := buildItemWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+itemDetailFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `SELECT ` + itemDetailColumns + itemDetailFrom + where + itemOrderBy(f.SortBy, f.Descending)
	query, args = appendPage(query, args, f.Limit, f.Offset)

	list, err := r.queryDetails(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock ítems no eliminados con 0 < quantity <= threshold, por cantidad ascendente.
func (r *ItemRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.ItemDetail, error) {
	query := `SELECT ` + itemDetailColumns + itemDetailFrom + `
	WHERE i.status <> 'deleted' AND i.quantity > 0 AND i.quantity <= i.low_stock_threshold
	ORDER BY i.quantity ASC, i.id ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	return r.queryDetails(ctx, query, args...)
}

func (r *ItemRepo) queryDetails(ctx context.Context, query string, args ...any) ([]*entity.ItemDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ItemDetail, 0)
	for rows.Next() {
		var d entity.ItemDetail
		if err := scanItem(rows, &d.Item, &d.CategoryName, &d.SupplierName); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// TotalValue suma quantity * unit_price de los ítems no eliminados.
func (r *ItemRepo) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * unit_price), 0) FROM items WHERE status <> 'deleted'`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total value: %w", err)
	}
	return total, nil
}

// CountByCategory cuenta ítems (incluidos eliminados) de la categoría.
func (r *ItemRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM items WHERE category_id = $1`, categoryID)
}

// CountBySupplier cuenta ítems (incluidos eliminados) del proveedor.
func (r *ItemRepo) CountBySupplier(ctx context.Context, supplierID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM items WHERE supplier_id = $1`, supplierID)
}

func (r *ItemRepo) count(ctx context.Context, query, arg string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// buildItemWhere arma el WHERE con placeholders $n en orden.
func buildItemWhere(f repository.ItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	pos := 1
	if f.Status == "" {
		conds = append(conds, "i.status <> 'deleted'")
	} else {
		conds = append(conds, fmt.Sprintf("i.status = $%d", pos))
		args = append(args, f.Status)
		pos++
	}
	if f.Category != "" {
		conds = append(conds, fmt.Sprintf("lower(c.name) = lower($%d)", pos))
		args = append(args, f.Category)
		pos++
	}
	if f.Search != "" {
		conds = append(conds, fmt.Sprintf(
			"(lower(i.name) LIKE $%[1]d OR lower(i.sku) LIKE $%[1]d OR lower(i.description) LIKE $%[1]d OR lower(i.location) LIKE $%[1]d)",
			pos))
		args = append(args, likePattern(f.Search))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func itemOrderBy(sortBy string, desc bool) string {
	expr := map[string]string{
		repository.ItemSortName:        "lower(i.name)",
		repository.ItemSortSKU:         "i.sku",
		repository.ItemSortQuantity:    "i.quantity",
		repository.ItemSortValue:       "(i.quantity * i.unit_price)",
		repository.ItemSortLastUpdated: "i.updated_at",
	}[sortBy]
	if expr == "" {
		expr = "lower(i.name)"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, i.id ASC", expr, dir)
}

// appendPage agrega LIMIT/OFFSET. limit <= 0 no limita.
func appendPage(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
