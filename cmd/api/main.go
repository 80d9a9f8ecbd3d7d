package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/inventario-core/internal/application/analytics"
	"github.com/jhoicas/inventario-core/internal/application/auth"
	"github.com/jhoicas/inventario-core/internal/application/inventory"
	appreport "github.com/jhoicas/inventario-core/internal/application/report"
	"github.com/jhoicas/inventario-core/internal/application/usecase"
	"github.com/jhoicas/inventario-core/internal/domain/repository"
	infraexcel "github.com/jhoicas/inventario-core/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-core/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-core/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-core/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-core/internal/interfaces/http"
	"github.com/jhoicas/inventario-core/pkg/clock"
	"github.com/jhoicas/inventario-core/pkg/config"
	"github.com/jhoicas/inventario-core/pkg/logger"
)

// repositories adaptadores de persistencia según STORAGE_DRIVER.
type repositories struct {
	tx         inventory.TxRunner
	items      repository.ItemRepository
	movements  repository.MovementRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	users      repository.UserRepository
	analytics  repository.AnalyticsRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	clk := clock.System{}
	itemUC := inventory.NewItemUseCase(repos.tx, repos.items, repos.categories, repos.suppliers, clk)
	itemQuery := inventory.NewItemQueryUseCase(repos.items)
	movementUC := inventory.NewMovementUseCase(repos.tx, repos.movements, clk)
	categoryUC := usecase.NewCategoryUseCase(repos.categories, repos.items, clk)
	supplierUC := usecase.NewSupplierUseCase(repos.suppliers, repos.items, clk)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.analytics, repos.items, repos.movements, clk)
	reportUC := appreport.NewReportUseCase(
		repos.items, repos.movements,
		infrapdf.NewMarotoRenderer(cfg.App.Name), infraexcel.NewRenderer(), clk,
	)
	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clk)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     itemUC,
		ItemQuery:  itemQuery,
		MovementUC: movementUC,
		CategoryUC: categoryUC,
		SupplierUC: supplierUC,
		Dashboard:  dashboardUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			tx:         store,
			items:      store.Items(),
			movements:  store.Movements(),
			categories: store.Categories(),
			suppliers:  store.Suppliers(),
			users:      store.Users(),
			analytics:  store.Analytics(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &repositories{
		tx:         postgres.NewTxRunner(pool),
		items:      postgres.NewItemRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		users:      postgres.NewUserRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		close:      pool.Close,
	}, nil
}
