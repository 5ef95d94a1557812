package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Bodegaje-api/internal/application/audit"
	"github.com/jhoicas/Bodegaje-api/internal/application/auth"
	"github.com/jhoicas/Bodegaje-api/internal/application/catalog"
	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
	"github.com/jhoicas/Bodegaje-api/internal/application/usecase"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/cache"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/export"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Bodegaje-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bodegaje-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Bodegaje-api/internal/interfaces/http"
	"github.com/jhoicas/Bodegaje-api/internal/interfaces/ws"
	"github.com/jhoicas/Bodegaje-api/pkg/config"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// storage repositorios del backend elegido (PostgreSQL o memoria).
type storage struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	stock     repository.StockRowRepository
	movements repository.MovementRepository
	tx        inventory.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	// Caché del catálogo: decora los repositorios y se invalida como observador.
	listeners := catalog.NewListeners()
	var catalogCache *cache.Catalog
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			catalogCache = cache.NewCatalog(client, cfg.Redis.TTL, log)
			store.products = catalogCache.Products(store.products)
			store.locations = catalogCache.Locations(store.locations)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	sinks := []audit.Sink{appMetrics, hub}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Warn().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("kafka no disponible, no se publicarán movimientos")
		} else {
			defer producer.Close()
			sinks = append(sinks, producer)
		}
	}
	publisher := audit.NewPublisher(log, sinks...)
	recorder := audit.NewRecorder(log, appMetrics)

	listeners.Register(audit.NewCatalogNotifier(recorder, store.movements, publisher))
	if catalogCache != nil {
		listeners.Register(catalogCache)
	}

	deps := inventory.Deps{
		Tx: store.tx,
		Refs: inventory.References{
			Products:  store.products,
			Locations: store.locations,
			Companies: store.companies,
		},
		Recorder:  recorder,
		Publisher: publisher,
		Log:       log,
	}
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// En memoria no hay cmd/create_admin que persista: el administrador se crea al arrancar.
	if cfg.App.IsMemory() && cfg.Admin.Email != "" {
		admin, created, err := authUC.EnsureAdmin(ctx, auth.AdminInput{
			Email:      cfg.Admin.Email,
			DocumentID: cfg.Admin.DocumentID,
			Password:   cfg.Admin.Password,
			Name:       cfg.Admin.Name,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		log.Info().Str("email", admin.Email).Bool("created", created).Msg("administrador inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Bodegaje API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   usecase.NewCompanyUseCase(store.companies),
		ProductUC:   catalog.NewProductUseCase(store.products, listeners, log),
		LocationUC:  catalog.NewLocationUseCase(store.locations, listeners, log),
		StockUC:     inventory.NewStockUseCase(deps, store.stock, export.NewExcelExporter()),
		Adjustments: inventory.NewAdjustmentUseCase(deps),
		HistoryUC:   inventory.NewHistoryUseCase(store.movements, infrapdf.NewMovementReportGenerator(cfg.App.Name)),
		Hub:         hub,
		JWTSecret:   cfg.JWT.Secret,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el almacén en memoria según APP_STORAGE.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.IsMemory() {
		s := memory.NewStore()
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		return &storage{
			products:  memory.NewProductRepository(s),
			locations: memory.NewLocationRepository(s),
			companies: memory.NewCompanyRepository(s),
			users:     memory.NewUserRepository(s),
			stock:     memory.NewStockRowRepository(s),
			movements: memory.NewMovementRepository(s),
			tx:        memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		companies: postgres.NewCompanyRepository(pool),
		users:     postgres.NewUserRepository(pool),
		stock:     postgres.NewStockRowRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
