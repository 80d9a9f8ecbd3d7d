package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserción y lectura.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento. ErrDuplicate si la referencia ya existe.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, item_id, type, quantity, user_id, reference, notes, movement_date, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.Type, m.Quantity, m.UserID, m.Reference, m.Notes, m.MovementDate, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return fmt.Errorf("%w: ítem o usuario inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ExistsReference indica si la referencia ya está registrada.
func (r *MovementRepo) ExistsReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movements WHERE reference = $1)`, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists reference: %w", err)
	}
	return exists, nil
}

// CountByItem cuenta los movimientos de un ítem.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

const movementDetailFrom = `
	FROM movements m
	LEFT JOIN items i ON i.id = m.item_id
	LEFT JOIN users u ON u.id = m.user_id`

// List aplica filtros, orden y paginación sobre el ledger; devuelve la página y el total.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.MovementDetail, int, error) {
	where, args := buildMovementWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+movementDetailFrom+where, args...).Scan(&total); err != nil {
		if isInvalidText(err) {
			return []*entity.MovementDetail{}, 0, nil
		}
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `
	SELECT m.id::text, m.item_id::text, m.type, m.quantity, COALESCE(m.user_id::text, ''), m.reference, m.notes,
	       m.movement_date, m.created_at, COALESCE(i.name, ''), COALESCE(i.sku, ''), COALESCE(u.name, '')` +
		movementDetailFrom + where + movementOrderBy(f.SortBy, f.Descending)
	query, args = appendPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MovementDetail, 0)
	for rows.Next() {
		var d entity.MovementDetail
		if err := rows.Scan(
			&d.ID, &d.ItemID, &d.Type, &d.Quantity, &d.UserID, &d.Reference, &d.Notes,
			&d.MovementDate, &d.CreatedAt, &d.ItemName, &d.ItemSKU, &d.UserName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MonthlySummary agrupa por (año, mes, tipo) en UTC los movimientos con fecha en [from, to).
func (r *MovementRepo) MonthlySummary(ctx context.Context, from, to time.Time) ([]entity.MovementSummary, error) {
	const query = `
	SELECT
	    EXTRACT(YEAR  FROM movement_date AT TIME ZONE 'UTC')::int AS year,
	    EXTRACT(MONTH FROM movement_date AT TIME ZONE 'UTC')::int AS month,
	    type,
	    COUNT(*)::int                                             AS count,
	    COALESCE(SUM(quantity), 0)::int                           AS total_quantity
	FROM movements
	WHERE movement_date >= $1 AND movement_date < $2
	GROUP BY 1, 2, 3
	ORDER BY 1, 2, 3`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("movements.MonthlySummary: %w", err)
	}
	defer rows.Close()

	out := make([]entity.MovementSummary, 0)
	for rows.Next() {
		var s entity.MovementSummary
		if err := rows.Scan(&s.Year, &s.Month, &s.Type, &s.Count, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("movements.MonthlySummary scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// buildMovementWhere arma el WHERE con placeholders $n en orden. From/To son inclusivos.
func buildMovementWhere(f repository.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	pos := 1
	if f.ItemID != "" {
		conds = append(conds, fmt.Sprintf("m.item_id = $%d", pos))
		args = append(args, f.ItemID)
		pos++
	}
	if f.Type != "" {
		conds = append(conds, fmt.Sprintf("m.type = $%d", pos))
		args = append(args, f.Type)
		pos++
	}
	if f.From != nil {
		conds = append(conds, fmt.Sprintf("m.movement_date >= $%d", pos))
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		conds = append(conds, fmt.Sprintf("m.movement_date <= $%d", pos))
		args = append(args, *f.To)
		pos++
	}
	if f.Search != "" {
		conds = append(conds, fmt.Sprintf(
			"(lower(m.reference) LIKE $%[1]d OR lower(m.notes) LIKE $%[1]d OR lower(COALESCE(i.name, '')) LIKE $%[1]d)",
			pos))
		args = append(args, likePattern(f.Search))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func movementOrderBy(sortBy string, desc bool) string {
	expr := map[string]string{
		repository.MovementSortDate:      "m.movement_date",
		repository.MovementSortQuantity:  "m.quantity",
		repository.MovementSortReference: "m.reference",
		repository.MovementSortType:      "m.type",
	}[sortBy]
	if expr == "" {
		expr = "m.movement_date"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, m.id ASC", expr, dir)
}
