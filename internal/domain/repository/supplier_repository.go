package repository

import (
	"context"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// SupplierFilter filtros de listado de proveedores.
type SupplierFilter struct {
	Search     string // nombre o tax_id, sin distinguir mayúsculas
	OnlyActive bool
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, filter SupplierFilter) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
