// seed aplica las migraciones y crea el administrador inicial y las categorías base.
//
// Uso: go run ./cmd/seed
// Requiere SEED_ADMIN_PASSWORD. Es idempotente: lo que ya existe se omite.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/jhoicas/inventario-core/internal/application/auth"
	"github.com/jhoicas/inventario-core/internal/application/dto"
	"github.com/jhoicas/inventario-core/internal/application/usecase"
	"github.com/jhoicas/inventario-core/internal/domain"
	"github.com/jhoicas/inventario-core/internal/domain/entity"
	"github.com/jhoicas/inventario-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-core/pkg/clock"
	"github.com/jhoicas/inventario-core/pkg/config"
	"github.com/jhoicas/inventario-core/pkg/logger"
)

var defaultCategories = []dto.CreateCategoryRequest{
	{Name: "Electrónica", Description: "Equipos y componentes electrónicos"},
	{Name: "Herramientas", Description: "Herramientas manuales y eléctricas"},
	{Name: "Oficina", Description: "Papelería y suministros de oficina"},
	{Name: "Limpieza", Description: "Productos de aseo y limpieza"},
	{Name: "Repuestos", Description: "Partes y repuestos de mantenimiento"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.Storage.Driver != config.StoragePostgres {
		log.Error().Str("storage", cfg.Storage.Driver).Msg("seed solo aplica a PostgreSQL")
		os.Exit(1)
	}
	if cfg.Seed.AdminPassword == "" {
		log.Error().Msg("SEED_ADMIN_PASSWORD es obligatorio")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	clk := clock.System{}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clk)
	admin, err := authUC.Register(ctx, dto.RegisterRequest{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Name:     cfg.Seed.AdminName,
		Role:     string(entity.RoleAdmin),
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("id", admin.ID).Str("email", admin.Email).Msg("administrador creado")
	}

	categoryUC := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool), postgres.NewItemRepository(pool), clk)
	created := 0
	for _, in := range defaultCategories {
		if _, err := categoryUC.Create(ctx, in); err != nil {
			if domain.IsConflict(err) {
				continue
			}
			log.Fatal().Err(err).Str("category", in.Name).Msg("crear categoría")
		}
		created++
	}
	log.Info().Int("created", created).Int("total", len(defaultCategories)).Msg("categorías base")
}
