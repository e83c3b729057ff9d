package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// ContractFilter filtros de listado de contratos.
type ContractFilter struct {
	Status     entity.ContractStatus
	SupplierID string
	Search     string // número o título
}

// ContractRepository puerto de persistencia de contratos.
type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	GetByID(ctx context.Context, id string) (*entity.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]*entity.Contract, error)
	// ListEndingBetween contratos con end_date en [from, to], ordenados por end_date.
	ListEndingBetween(ctx context.Context, status entity.ContractStatus, from, to time.Time) ([]*entity.Contract, error)
	Update(ctx context.Context, contract *entity.Contract) error
	// Delete elimina el contrato y en cascada documentos, obligaciones y pagos.
	Delete(ctx context.Context, id string) error
}

// ObligationRepository puerto de persistencia de obligaciones.
type ObligationRepository interface {
	Create(ctx context.Context, obligation *entity.Obligation) error
	GetByID(ctx context.Context, id string) (*entity.Obligation, error)
	ListByContract(ctx context.Context, contractID string) ([]*entity.Obligation, error)
	Update(ctx context.Context, obligation *entity.Obligation) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository puerto de persistencia de pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByContract(ctx context.Context, contractID string) ([]*entity.Payment, error)
	// ListOpen pagos pendentes o atrasados de todos los contratos.
	ListOpen(ctx context.Context) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository puerto de persistencia de metadatos de documentos.
type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	ListByContract(ctx context.Context, contractID string) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}
