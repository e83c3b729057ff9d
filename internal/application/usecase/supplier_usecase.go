package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// SupplierUseCase aplica reglas de negocio para proveedores.
type SupplierUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder) *SupplierUseCase {
	return &SupplierUseCase{store: store, guard: guard, audit: audit}
}

// List lista proveedores con filtros opcionales.
func (uc *SupplierUseCase) List(ctx context.Context, actor authz.Actor, filter repository.SupplierFilter) ([]dto.SupplierResponse, error) {
	if err := uc.guard.Check(actor, entity.TableSuppliers, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	list, err := uc.store.Repos().Suppliers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *entityToSupplierResponse(s))
	}
	return out, nil
}

// GetByID obtiene un proveedor. Devuelve domain.ErrNotFound si no existe.
func (uc *SupplierUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.SupplierResponse, error) {
	if err := uc.guard.Check(actor, entity.TableSuppliers, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	s, err := uc.store.Repos().Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return entityToSupplierResponse(s), nil
}

// Create crea un proveedor (admin o gestor). tax_id repetido => domain.ErrDuplicate.
func (uc *SupplierUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := uc.guard.Check(actor, entity.TableSuppliers, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		TaxID:       strings.TrimSpace(in.TaxID),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		Address:     in.Address,
		ContactName: in.ContactName,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if supplier.Name == "" {
		return nil, invalid("el nombre del proveedor es obligatorio")
	}
	out := entityToSupplierResponse(supplier)
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		if err := r.Suppliers.Create(ctx, supplier); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TableSuppliers, supplier.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update actualiza un proveedor (admin o gestor).
func (uc *SupplierUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := uc.guard.Check(actor, entity.TableSuppliers, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	var out *dto.SupplierResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		s, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		before := entityToSupplierResponse(s)
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return invalid("el nombre del proveedor es obligatorio")
			}
			s.Name = strings.TrimSpace(*in.Name)
		}
		if in.TaxID != nil {
			s.TaxID = strings.TrimSpace(*in.TaxID)
		}
		if in.Email != nil {
			s.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			s.Phone = *in.Phone
		}
		if in.Address != nil {
			s.Address = *in.Address
		}
		if in.ContactName != nil {
			s.ContactName = *in.ContactName
		}
		if in.IsActive != nil {
			s.IsActive = *in.IsActive
		}
		s.UpdatedAt = time.Now().UTC()
		if err := r.Suppliers.Update(ctx, s); err != nil {
			return err
		}
		out = entityToSupplierResponse(s)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TableSuppliers, s.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un proveedor (solo admin). Los contratos quedan sin proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := uc.guard.Check(actor, entity.TableSuppliers, authz.OpDelete, ""); err != nil {
		return err
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		s, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := r.Suppliers.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditDelete, entity.TableSuppliers, id, entityToSupplierResponse(s), nil)
	})
}

func entityToSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		TaxID:       s.TaxID,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		ContactName: s.ContactName,
		IsActive:    s.IsActive,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
