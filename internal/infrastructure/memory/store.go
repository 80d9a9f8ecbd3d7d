// Package memory implementa los puertos de persistencia en memoria.
// Lo usan los tests y STORAGE_DRIVER=memory; respeta las mismas reglas de unicidad que PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// state datos del store. Se clona completo al iniciar una transacción.
type state struct {
	items      map[string]entity.Item
	movements  []entity.Movement
	references map[string]struct{}
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	users      map[string]entity.User
}

func newState() *state {
	return &state{
		items:      make(map[string]entity.Item),
		references: make(map[string]struct{}),
		categories: make(map[string]entity.Category),
		suppliers:  make(map[string]entity.Supplier),
		users:      make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:      make(map[string]entity.Item, len(s.items)),
		movements:  make([]entity.Movement, len(s.movements)),
		references: make(map[string]struct{}, len(s.references)),
		categories: make(map[string]entity.Category, len(s.categories)),
		suppliers:  make(map[string]entity.Supplier, len(s.suppliers)),
		users:      make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	copy(c.movements, s.movements)
	for k := range s.references {
		c.references[k] = struct{}{}
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store base de datos en memoria protegida por un RWMutex.
// Las transacciones se serializan: Run toma el lock de escritura, trabaja sobre una copia
// y la publica solo si fn no devuelve error.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acceso al estado: tx != nil dentro de una transacción (el lock ya está tomado).
type view struct {
	s  *Store
	tx *state
}

func (v view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

// Run ejecuta fn con repositorios atados a una copia del estado; Commit al terminar sin error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	v := view{s: s, tx: tx}
	if err := fn(&ItemRepo{v: v}, &MovementRepo{v: v}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{v: view{s: s}} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: view{s: s}} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{v: view{s: s}} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{v: view{s: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{v: view{s: s}} }

// Analytics consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{v: view{s: s}} }
