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

// Ventana por defecto y máxima de GET /api/contracts/expiring.
const (
	DefaultExpiringDays = 30
	MaxExpiringDays     = 365
)

// ContractUseCase aplica reglas de negocio para contratos.
type ContractUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
	now   func() time.Time
}

// NewContractUseCase construye el caso de uso.
func NewContractUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder) *ContractUseCase {
	return &ContractUseCase{store: store, guard: guard, audit: audit, now: time.Now}
}

// List lista contratos (cualquier usuario autenticado).
func (uc *ContractUseCase) List(ctx context.Context, actor authz.Actor, filter repository.ContractFilter) ([]dto.ContractResponse, error) {
	if err := uc.guard.Check(actor, entity.TableContracts, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("estado de contrato desconocido")
	}
	list, err := uc.store.Repos().Contracts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *entityToContractResponse(c))
	}
	return out, nil
}

// GetByID obtiene un contrato con proveedor, obligaciones, pagos y documentos.
func (uc *ContractUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.ContractDetailResponse, error) {
	for _, t := range []entity.Table{entity.TableContracts, entity.TableObligations, entity.TablePayments, entity.TableDocuments} {
		if err := uc.guard.Check(actor, t, authz.OpSelect, ""); err != nil {
			return nil, err
		}
	}
	repos := uc.store.Repos()
	c, err := repos.Contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	detail := &dto.ContractDetailResponse{
		ContractResponse: *entityToContractResponse(c),
		Obligations:      []dto.ObligationResponse{},
		Payments:         []dto.PaymentResponse{},
		Documents:        []dto.DocumentResponse{},
	}
	if c.SupplierID != nil {
		s, err := repos.Suppliers.GetByID(ctx, *c.SupplierID)
		if err != nil {
			return nil, err
		}
		detail.Supplier = entityToSupplierResponse(s)
	}
	obligations, err := repos.Obligations.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, o := range obligations {
		detail.Obligations = append(detail.Obligations, *entityToObligationResponse(o))
	}
	payments, err := repos.Payments.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	for _, p := range payments {
		detail.Payments = append(detail.Payments, *entityToPaymentResponse(p, now))
	}
	documents, err := repos.Documents.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, d := range documents {
		detail.Documents = append(detail.Documents, *entityToDocumentResponse(d))
	}
	return detail, nil
}

// Create crea un contrato (admin o gestor). Estado por defecto rascunho.
func (uc *ContractUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	if err := uc.guard.Check(actor, entity.TableContracts, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	status := entity.ContractRascunho
	if in.Status != "" {
		status = entity.ContractStatus(in.Status)
	}
	now := uc.now().UTC()
	contract := &entity.Contract{
		ID:          uuid.New().String(),
		Number:      strings.TrimSpace(in.Number),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		SupplierID:  emptyToNil(in.SupplierID),
		Value:       in.Value,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Department:  in.Department,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateContract(contract); err != nil {
		return nil, err
	}
	out := entityToContractResponse(contract)
	err = uc.store.Run(ctx, func(r ports.Repos) error {
		if err := requireSupplier(ctx, r, contract.SupplierID); err != nil {
			return err
		}
		if err := r.Contracts.Create(ctx, contract); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TableContracts, contract.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update actualiza un contrato (admin o gestor; last-write-wins).
func (uc *ContractUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateContractRequest) (*dto.ContractResponse, error) {
	if err := uc.guard.Check(actor, entity.TableContracts, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	var out *dto.ContractResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		c, err := r.Contracts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		before := entityToContractResponse(c)
		if err := applyContractUpdate(c, in); err != nil {
			return err
		}
		if err := validateContract(c); err != nil {
			return err
		}
		if in.SupplierID != nil {
			if err := requireSupplier(ctx, r, c.SupplierID); err != nil {
				return err
			}
		}
		c.UpdatedAt = uc.now().UTC()
		if err := r.Contracts.Update(ctx, c); err != nil {
			return err
		}
		out = entityToContractResponse(c)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TableContracts, c.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un contrato (solo admin) y en cascada obligaciones, pagos y documentos.
func (uc *ContractUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := uc.guard.Check(actor, entity.TableContracts, authz.OpDelete, ""); err != nil {
		return err
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		c, err := r.Contracts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if err := r.Contracts.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditDelete, entity.TableContracts, id, entityToContractResponse(c), nil)
	})
}

// Expiring contratos ativos cuyo end_date cae en [hoy, hoy+days].
func (uc *ContractUseCase) Expiring(ctx context.Context, actor authz.Actor, days int) ([]dto.ExpiringContractResponse, error) {
	if err := uc.guard.Check(actor, entity.TableContracts, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultExpiringDays
	}
	if days > MaxExpiringDays {
		return nil, invalid("days no puede superar 365")
	}
	return expiringContracts(ctx, uc.store.Repos().Contracts, uc.now(), days)
}

func expiringContracts(ctx context.Context, repo repository.ContractRepository, now time.Time, days int) ([]dto.ExpiringContractResponse, error) {
	from := today(now)
	to := from.AddDate(0, 0, days)
	list, err := repo.ListEndingBetween(ctx, entity.ContractAtivo, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringContractResponse, 0, len(list))
	for _, c := range list {
		if !c.ExpiresWithin(from, days) {
			continue
		}
		out = append(out, dto.ExpiringContractResponse{
			ContractResponse: *entityToContractResponse(c),
			DaysLeft:         int(today(c.EndDate).Sub(from).Hours() / 24),
		})
	}
	return out, nil
}

func applyContractUpdate(c *entity.Contract, in dto.UpdateContractRequest) error {
	if in.Number != nil {
		c.Number = strings.TrimSpace(*in.Number)
	}
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ClearSupplier {
		c.SupplierID = nil
	} else if in.SupplierID != nil {
		c.SupplierID = emptyToNil(in.SupplierID)
	}
	if in.Value != nil {
		c.Value = *in.Value
	}
	if in.StartDate != nil {
		d, err := parseDate("start_date", *in.StartDate)
		if err != nil {
			return err
		}
		c.StartDate = d
	}
	if in.EndDate != nil {
		d, err := parseDate("end_date", *in.EndDate)
		if err != nil {
			return err
		}
		c.EndDate = d
	}
	if in.Status != nil {
		c.Status = entity.ContractStatus(*in.Status)
	}
	if in.Department != nil {
		c.Department = *in.Department
	}
	return nil
}

func validateContract(c *entity.Contract) error {
	switch {
	case c.Number == "":
		return invalid("el número del contrato es obligatorio")
	case c.Title == "":
		return invalid("el título del contrato es obligatorio")
	case c.Value.IsNegative():
		return invalid("el valor del contrato no puede ser negativo")
	case c.EndDate.Before(c.StartDate):
		return invalid("end_date no puede ser anterior a start_date")
	case !c.Status.Valid():
		return invalid("estado de contrato desconocido")
	}
	return nil
}

func requireSupplier(ctx context.Context, r ports.Repos, supplierID *string) error {
	if supplierID == nil {
		return nil
	}
	s, err := r.Suppliers.GetByID(ctx, *supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return invalid("el proveedor indicado no existe")
	}
	return nil
}

// requireContract verifica que el contrato exista dentro de la transacción.
func requireContract(ctx context.Context, r ports.Repos, contractID string) error {
	c, err := r.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func entityToContractResponse(c *entity.Contract) *dto.ContractResponse {
	if c == nil {
		return nil
	}
	return &dto.ContractResponse{
		ID:          c.ID,
		Number:      c.Number,
		Title:       c.Title,
		Description: c.Description,
		SupplierID:  c.SupplierID,
		Value:       c.Value,
		StartDate:   formatDate(c.StartDate),
		EndDate:     formatDate(c.EndDate),
		Status:      string(c.Status),
		Department:  c.Department,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
