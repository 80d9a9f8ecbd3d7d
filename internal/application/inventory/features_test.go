package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-core/pkg/clock"
)

type lifecycleContext struct {
	store *memory.Store
	items *inventory.ItemUseCase
	movs  *inventory.MovementUseCase
	ids   map[string]string // SKU → ID
	soft  bool
	err   error
}

func (l *lifecycleContext) reset() {
	l.store = memory.NewStore()
	clk := clock.NewFixed(t0)
	l.items = inventory.NewItemUseCase(l.store, l.store.Items(), l.store.Categories(), l.store.Suppliers(), clk)
	l.movs = inventory.NewMovementUseCase(l.store, l.store.Movements(), clk)
	l.ids = make(map[string]string)
	l.soft = false
	l.err = nil
}

func (l *lifecycleContext) aCatalog(category, supplier string) error {
	ctx := context.Background()
	if err := l.store.Categories().Create(ctx, &entity.Category{ID: "cat-1", Name: category, CreatedAt: t0, UpdatedAt: t0}); err != nil {
		return err
	}
	return l.store.Suppliers().Create(ctx, &entity.Supplier{ID: "sup-1", Name: supplier, Email: "ventas@example.com", Status: entity.SupplierStatusActive, CreatedAt: t0, UpdatedAt: t0})
}

func (l *lifecycleContext) createItem(sku string, qty, threshold int) error {
	in := dto.CreateItemRequest{
		Name:              "Ítem " + sku,
		SKU:               sku,
		CategoryID:        "cat-1",
		SupplierID:        "sup-1",
		Quantity:          qty,
		LowStockThreshold: &threshold,
	}
	out, err := l.items.Create(context.Background(), in, actor)
	if err != nil {
		return err
	}
	l.ids[out.SKU] = out.ID
	return nil
}

func (l *lifecycleContext) idOf(sku string) (string, error) {
	id, ok := l.ids[sku]
	if !ok {
		return "", fmt.Errorf("ítem %s no fue creado en el escenario", sku)
	}
	return id, nil
}

func (l *lifecycleContext) adjust(movType string) func(sku string, qty int) error {
	return func(sku string, qty int) error {
		id, err := l.idOf(sku)
		if err != nil {
			return err
		}
		_, l.err = l.movs.AdjustStock(context.Background(), dto.AdjustStockRequest{ItemID: id, Type: movType, Quantity: qty}, actor)
		return nil
	}
}

func (l *lifecycleContext) deleteItem(sku string) error {
	id, err := l.idOf(sku)
	if err != nil {
		return err
	}
	l.soft, err = l.items.Delete(context.Background(), id)
	return err
}

func (l *lifecycleContext) itemHas(sku string, qty int, status string) error {
	id, err := l.idOf(sku)
	if err != nil {
		return err
	}
	item, err := l.items.GetItem(context.Background(), id)
	if err != nil {
		return err
	}
	if item.Quantity != qty || item.Status != status {
		return fmt.Errorf("esperaba cantidad %d y estado %s, obtuve %d y %s", qty, status, item.Quantity, item.Status)
	}
	return nil
}

func (l *lifecycleContext) ledgerHas(sku string, n int) error {
	id, err := l.idOf(sku)
	if err != nil {
		return err
	}
	got, err := l.store.Movements().CountByItem(context.Background(), id)
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("esperaba %d movimientos, hay %d", n, got)
	}
	return nil
}

func (l *lifecycleContext) referenceExists(ref string) error {
	list, _, err := l.store.Movements().List(context.Background(), repository.MovementFilter{})
	if err != nil {
		return err
	}
	for _, m := range list {
		if m.Reference == ref {
			return nil
		}
	}
	return fmt.Errorf("no existe el movimiento %s", ref)
}

func (l *lifecycleContext) failsWithInsufficientStock() error {
	if !errors.Is(l.err, domain.ErrInsufficientStock) {
		return fmt.Errorf("esperaba stock insuficiente, obtuve %v", l.err)
	}
	return nil
}

func (l *lifecycleContext) deletionWasSoft() error {
	if !l.soft {
		return errors.New("esperaba borrado lógico")
	}
	return nil
}

func (l *lifecycleContext) skuAvailable(sku string) error {
	exists, err := l.items.CheckSkuExists(context.Background(), sku)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("el SKU %s sigue ocupado", sku)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	l := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		l.reset()
		return ctx, nil
	})

	ctx.Step(`^un catálogo con la categoría "([^"]*)" y el proveedor "([^"]*)"$`, l.aCatalog)
	ctx.Step(`^(?:creo )?el ítem "([^"]*)" con cantidad (\d+) y umbral (\d+)$`, l.createItem)
	ctx.Step(`^ajusto el stock de "([^"]*)" con una salida de (\d+)$`, l.adjust(entity.MovementTypeOutbound))
	ctx.Step(`^ajusto el stock de "([^"]*)" con una entrada de (\d+)$`, l.adjust(entity.MovementTypeInbound))
	ctx.Step(`^ajusto el stock de "([^"]*)" con un ajuste de (-?\d+)$`, l.adjust(entity.MovementTypeAdjustment))
	ctx.Step(`^elimino el ítem "([^"]*)"$`, l.deleteItem)
	ctx.Step(`^el ítem "([^"]*)" tiene cantidad (\d+) y estado "([^"]*)"$`, l.itemHas)
	ctx.Step(`^el ledger del ítem "([^"]*)" tiene (\d+) movimientos?$`, l.ledgerHas)
	ctx.Step(`^existe el movimiento con referencia "([^"]*)"$`, l.referenceExists)
	ctx.Step(`^la operación falla por stock insuficiente$`, l.failsWithInsufficientStock)
	ctx.Step(`^el borrado fue lógico$`, l.deletionWasSoft)
	ctx.Step(`^el SKU "([^"]*)" está disponible$`, l.skuAvailable)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
