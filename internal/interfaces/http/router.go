package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/auth"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProfileUC     *usecase.ProfileUseCase
	SettingsUC    *usecase.SettingsUseCase
	UserRoleUC    *usecase.UserRoleUseCase
	SupplierUC    *usecase.SupplierUseCase
	ContractUC    *usecase.ContractUseCase
	ObligationUC  *usecase.ObligationUseCase
	DocumentUC    *usecase.DocumentUseCase
	AuditUC       *usecase.AuditUseCase
	DashboardUC   *usecase.DashboardUseCase
	Resolver      *access.RoleResolver
	Guard         *access.Guard
	JWTSecret     string
	MaxUploadSize int64
}

// AppConfig configuración de fiber.App para la API.
// Immutable: los ids de la ruta se guardan como claves en el store y no
// pueden apuntar al buffer de fasthttp, que se reutiliza entre peticiones.
func AppConfig(name string, maxUploadBytes int64) fiber.Config {
	return fiber.Config{
		AppName:      name,
		Immutable:    true,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// margen para el multipart sobre el tamaño máximo del PDF
		BodyLimit: int(maxUploadBytes) + 1024*1024,
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	can := func(table entity.Table, op authz.Operation) fiber.Handler {
		return RequirePermission(deps.Guard, table, op)
	}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// URL firmada (autorizada por el token de la propia URL)
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.MaxUploadSize)
	api.Get("/storage/signed/:token", documentHandler.OpenSigned)

	// Rutas protegidas (Bearer Token + rol resuelto en servidor)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), SessionMiddleware(deps.Resolver))

	// Sesión actual
	meHandler := NewMeHandler(deps.ProfileUC, deps.SettingsUC)
	me := protected.Group("/me")
	me.Get("/", meHandler.Me)
	me.Put("/profile", meHandler.UpdateProfile)
	me.Get("/permissions", meHandler.Permissions)
	me.Get("/notification-settings", meHandler.GetSettings)
	me.Put("/notification-settings", meHandler.UpdateSettings)

	// Perfiles y roles
	userHandler := NewUserHandler(deps.ProfileUC, deps.UserRoleUC)
	profiles := protected.Group("/profiles")
	profiles.Get("/", userHandler.ListProfiles)
	profiles.Get("/:id", userHandler.GetProfile)
	profiles.Put("/:id", userHandler.UpdateProfile)
	users := protected.Group("/users")
	users.Get("/", userHandler.ListUsers)
	users.Put("/:id/role", can(entity.TableUserRoles, authz.OpUpdate), userHandler.ChangeRole)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", can(entity.TableSuppliers, authz.OpInsert), supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", can(entity.TableSuppliers, authz.OpUpdate), supplierHandler.Update)
	suppliers.Delete("/:id", can(entity.TableSuppliers, authz.OpDelete), supplierHandler.Delete)

	// Contratos con obligaciones, pagos y documentos
	contractHandler := NewContractHandler(deps.ContractUC, deps.ObligationUC)
	contracts := protected.Group("/contracts")
	contracts.Get("/", contractHandler.List)
	contracts.Post("/", can(entity.TableContracts, authz.OpInsert), contractHandler.Create)
	contracts.Get("/expiring", contractHandler.Expiring)
	contracts.Get("/:id", contractHandler.GetByID)
	contracts.Put("/:id", can(entity.TableContracts, authz.OpUpdate), contractHandler.Update)
	contracts.Delete("/:id", can(entity.TableContracts, authz.OpDelete), contractHandler.Delete)
	contracts.Get("/:id/obligations", contractHandler.ListObligations)
	contracts.Post("/:id/obligations", can(entity.TableObligations, authz.OpInsert), contractHandler.CreateObligation)
	contracts.Get("/:id/payments", contractHandler.ListPayments)
	contracts.Post("/:id/payments", can(entity.TablePayments, authz.OpInsert), contractHandler.CreatePayment)
	contracts.Get("/:id/documents", documentHandler.List)
	contracts.Post("/:id/documents", can(entity.TableDocuments, authz.OpInsert), documentHandler.Upload)

	obligations := protected.Group("/obligations")
	obligations.Put("/:id", can(entity.TableObligations, authz.OpUpdate), contractHandler.UpdateObligation)
	obligations.Delete("/:id", can(entity.TableObligations, authz.OpDelete), contractHandler.DeleteObligation)

	payments := protected.Group("/payments")
	payments.Put("/:id", can(entity.TablePayments, authz.OpUpdate), contractHandler.UpdatePayment)
	payments.Delete("/:id", can(entity.TablePayments, authz.OpDelete), contractHandler.DeletePayment)

	documents := protected.Group("/documents")
	documents.Get("/:id", documentHandler.GetByID)
	documents.Get("/:id/download", documentHandler.Download)
	documents.Post("/:id/signed-url", documentHandler.SignedURL)
	documents.Delete("/:id", can(entity.TableDocuments, authz.OpDelete), documentHandler.Delete)

	// Auditoría
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditLogs := protected.Group("/audit-logs")
	auditLogs.Get("/", can(entity.TableAuditLogs, authz.OpSelect), auditHandler.List)
	auditLogs.Get("/export.pdf", can(entity.TableAuditLogs, authz.OpSelect), auditHandler.ExportPDF)
	auditLogs.Post("/", auditHandler.Create)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
