// create_admin crea (si no existe) el usuario administrador configurado en ADMIN_*.
//
// Uso: go run ./cmd/create_admin
// Requiere ADMIN_EMAIL, ADMIN_DOCUMENT_ID y ADMIN_PASSWORD; ADMIN_NAME es opcional.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Bodegaje-api/internal/application/auth"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bodegaje-api/pkg/config"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	admin, created, err := authUC.EnsureAdmin(ctx, auth.AdminInput{
		Email:      cfg.Admin.Email,
		DocumentID: cfg.Admin.DocumentID,
		Password:   cfg.Admin.Password,
		Name:       cfg.Admin.Name,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	if created {
		fmt.Printf("Administrador %s creado (id %s)\n", admin.Email, admin.ID)
		return
	}
	fmt.Printf("El administrador %s ya existía, no se modificó\n", admin.Email)
}
