package ports

import (
	"context"

	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// Repos agrupa los adaptadores de persistencia atados a una misma conexión o transacción.
// Cualquier backend (PostgreSQL, memoria) debe construir el conjunto completo.
type Repos struct {
	Identities  repository.IdentityRepository
	Profiles    repository.ProfileRepository
	Roles       repository.UserRoleRepository
	Settings    repository.NotificationSettingsRepository
	Suppliers   repository.SupplierRepository
	Contracts   repository.ContractRepository
	Obligations repository.ObligationRepository
	Payments    repository.PaymentRepository
	Documents   repository.DocumentRepository
	Audit       repository.AuditLogRepository
	Storage     repository.ObjectStorage
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil,
// Rollback en cualquier otro caso. Los repos recibidos solo son válidos dentro de fn.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Store backend completo: repos fuera de transacción + runner transaccional.
type Store interface {
	TxRunner
	Repos() Repos
}
