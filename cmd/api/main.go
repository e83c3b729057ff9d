package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/auth"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/application/provisioning"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Contratos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Contratos-api/internal/interfaces/http"
	"github.com/jhoicas/Contratos-api/pkg/config"
	"github.com/jhoicas/Contratos-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		cfg.Storage.SigningSecret = cfg.JWT.Secret
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto aleatorio (los tokens no sobreviven a un reinicio)")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
}

// run arranca la API y bloquea hasta recibir SIGINT/SIGTERM.
// Los recursos abiertos se cierran antes de retornar, también en error.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	// Persistencia: PostgreSQL o memoria (desarrollo)
	var store ports.Store
	switch cfg.DB.Driver {
	case "memory":
		store = memstore.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Named("migrate").Zerolog()); err != nil {
				return fmt.Errorf("migraciones: %w", err)
			}
		}
		store = postgres.NewStore(pool)
	}

	m := metrics.New()

	// Autorización: rol resuelto en servidor + matriz de permisos
	resolver := access.NewRoleResolver(store.Repos().Roles, cfg.Access.RoleCacheTTL, m, log.Named("access").Zerolog())
	guard := access.NewGuard(nil, m, log.Named("authz").Zerolog())
	recorder := usecase.NewAuditRecorder(m)

	provisioner := provisioning.NewProvisioner(recorder)
	provisionUC := provisioning.NewProvisionUseCase(store, provisioner, log.Named("provisioning").Zerolog())
	authUC := auth.NewAuthUseCase(store, provisioner, provisionUC, resolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// PDF: informe exportable del log de auditoría
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     usecase.NewProfileUseCase(store, guard, recorder),
		SettingsUC:    usecase.NewSettingsUseCase(store, guard, recorder),
		UserRoleUC:    usecase.NewUserRoleUseCase(store, guard, resolver, recorder),
		SupplierUC:    usecase.NewSupplierUseCase(store, guard, recorder),
		ContractUC:    usecase.NewContractUseCase(store, guard, recorder),
		ObligationUC:  usecase.NewObligationUseCase(store, guard, recorder),
		DocumentUC:    usecase.NewDocumentUseCase(store, guard, recorder, cfg.Storage),
		AuditUC:       usecase.NewAuditUseCase(store, guard, recorder, pdfGenerator, cfg.Audit.MaxEntries),
		DashboardUC:   usecase.NewDashboardUseCase(store, guard),
		Resolver:      resolver,
		Guard:         guard,
		JWTSecret:     cfg.JWT.Secret,
		MaxUploadSize: cfg.Storage.MaxUploadBytes(),
	}

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name, cfg.Storage.MaxUploadBytes()))
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware(m))
	app.Use(httpRouter.RequestLogger(log.Named("http").Zerolog()))
	app.Use(httpRouter.RequestTimeout(cfg.HTTP.RequestTimeout))

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Contratos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, deps)

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
		return fmt.Errorf("apagado del servidor: %w", err)
	}

	log.Info().Msg("aplicación detenida")
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generar secreto: " + err.Error())
	}
	return hex.EncodeToString(b)
}
