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
)

// ObligationUseCase gestiona obligaciones y pagos de un contrato.
type ObligationUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
	now   func() time.Time
}

// NewObligationUseCase construye el caso de uso.
func NewObligationUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder) *ObligationUseCase {
	return &ObligationUseCase{store: store, guard: guard, audit: audit, now: time.Now}
}

// ─── Obligaciones ─────────────────────────────────────────────────────────────

// ListObligations lista las obligaciones de un contrato.
func (uc *ObligationUseCase) ListObligations(ctx context.Context, actor authz.Actor, contractID string) ([]dto.ObligationResponse, error) {
	if err := uc.guard.Check(actor, entity.TableObligations, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	list, err := uc.store.Repos().Obligations.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObligationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *entityToObligationResponse(o))
	}
	return out, nil
}

// CreateObligation crea una obligación en un contrato existente.
func (uc *ObligationUseCase) CreateObligation(ctx context.Context, actor authz.Actor, contractID string, in dto.CreateObligationRequest) (*dto.ObligationResponse, error) {
	if err := uc.guard.Check(actor, entity.TableObligations, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	o := &entity.Obligation{
		ID:          uuid.New().String(),
		ContractID:  contractID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Responsible: in.Responsible,
		Status:      entity.ObligationPendente,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		o.Status = entity.ObligationStatus(in.Status)
	}
	if in.DueDate != nil && *in.DueDate != "" {
		d, err := parseDate("due_date", *in.DueDate)
		if err != nil {
			return nil, err
		}
		o.DueDate = &d
	}
	if err := validateObligation(o); err != nil {
		return nil, err
	}
	out := entityToObligationResponse(o)
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		if err := requireContract(ctx, r, contractID); err != nil {
			return err
		}
		if err := r.Obligations.Create(ctx, o); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TableObligations, o.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateObligation actualiza una obligación.
func (uc *ObligationUseCase) UpdateObligation(ctx context.Context, actor authz.Actor, id string, in dto.UpdateObligationRequest) (*dto.ObligationResponse, error) {
	if err := uc.guard.Check(actor, entity.TableObligations, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	var out *dto.ObligationResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		o, err := r.Obligations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		before := entityToObligationResponse(o)
		if in.Title != nil {
			o.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			o.Description = *in.Description
		}
		if in.DueDate != nil {
			if *in.DueDate == "" {
				o.DueDate = nil
			} else {
				d, err := parseDate("due_date", *in.DueDate)
				if err != nil {
					return err
				}
				o.DueDate = &d
			}
		}
		if in.Responsible != nil {
			o.Responsible = *in.Responsible
		}
		if in.Status != nil {
			o.Status = entity.ObligationStatus(*in.Status)
		}
		if err := validateObligation(o); err != nil {
			return err
		}
		o.UpdatedAt = uc.now().UTC()
		if err := r.Obligations.Update(ctx, o); err != nil {
			return err
		}
		out = entityToObligationResponse(o)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TableObligations, o.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteObligation elimina una obligación (solo admin).
func (uc *ObligationUseCase) DeleteObligation(ctx context.Context, actor authz.Actor, id string) error {
	if err := uc.guard.Check(actor, entity.TableObligations, authz.OpDelete, ""); err != nil {
		return err
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		o, err := r.Obligations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := r.Obligations.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditDelete, entity.TableObligations, id, entityToObligationResponse(o), nil)
	})
}

// ─── Pagos ────────────────────────────────────────────────────────────────────

// ListPayments lista los pagos de un contrato por vencimiento.
func (uc *ObligationUseCase) ListPayments(ctx context.Context, actor authz.Actor, contractID string) ([]dto.PaymentResponse, error) {
	if err := uc.guard.Check(actor, entity.TablePayments, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	list, err := uc.store.Repos().Payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *entityToPaymentResponse(p, now))
	}
	return out, nil
}

// CreatePayment registra un pago. Estado pago sin paid_at se marca con la hora actual.
func (uc *ObligationUseCase) CreatePayment(ctx context.Context, actor authz.Actor, contractID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := uc.guard.Check(actor, entity.TablePayments, authz.OpInsert, ""); err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p := &entity.Payment{
		ID:          uuid.New().String(),
		ContractID:  contractID,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     due,
		PaidAt:      in.PaidAt,
		Status:      entity.PaymentPendente,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	stampPaid(p, now)
	if err := validatePayment(p); err != nil {
		return nil, err
	}
	out := entityToPaymentResponse(p, now)
	err = uc.store.Run(ctx, func(r ports.Repos) error {
		if err := requireContract(ctx, r, contractID); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TablePayments, p.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePayment actualiza un pago.
func (uc *ObligationUseCase) UpdatePayment(ctx context.Context, actor authz.Actor, id string, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := uc.guard.Check(actor, entity.TablePayments, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	var out *dto.PaymentResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		p, err := r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		before := entityToPaymentResponse(p, now)
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Amount != nil {
			p.Amount = *in.Amount
		}
		if in.DueDate != nil {
			d, err := parseDate("due_date", *in.DueDate)
			if err != nil {
				return err
			}
			p.DueDate = d
		}
		if in.PaidAt != nil {
			p.PaidAt = in.PaidAt
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		stampPaid(p, now)
		if err := validatePayment(p); err != nil {
			return err
		}
		p.UpdatedAt = now
		if err := r.Payments.Update(ctx, p); err != nil {
			return err
		}
		out = entityToPaymentResponse(p, now)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TablePayments, p.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePayment elimina un pago (solo admin).
func (uc *ObligationUseCase) DeletePayment(ctx context.Context, actor authz.Actor, id string) error {
	if err := uc.guard.Check(actor, entity.TablePayments, authz.OpDelete, ""); err != nil {
		return err
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		p, err := r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := r.Payments.Delete(ctx, id); err != nil {
			return err
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditDelete, entity.TablePayments, id, entityToPaymentResponse(p, uc.now()), nil)
	})
}

func stampPaid(p *entity.Payment, now time.Time) {
	if p.Status == entity.PaymentPago && p.PaidAt == nil {
		t := now
		p.PaidAt = &t
	}
}

func validateObligation(o *entity.Obligation) error {
	if o.Title == "" {
		return invalid("el título de la obligación es obligatorio")
	}
	if !o.Status.Valid() {
		return invalid("estado de obligación desconocido")
	}
	return nil
}

func validatePayment(p *entity.Payment) error {
	if !p.Amount.IsPositive() {
		return invalid("el monto del pago debe ser mayor que cero")
	}
	if !entity.ValidPaymentStatus(p.Status) {
		return invalid("estado de pago desconocido")
	}
	return nil
}

func entityToObligationResponse(o *entity.Obligation) *dto.ObligationResponse {
	return &dto.ObligationResponse{
		ID:          o.ID,
		ContractID:  o.ContractID,
		Title:       o.Title,
		Description: o.Description,
		DueDate:     formatDatePtr(o.DueDate),
		Responsible: o.Responsible,
		Status:      string(o.Status),
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func entityToPaymentResponse(p *entity.Payment, now time.Time) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:          p.ID,
		ContractID:  p.ContractID,
		Description: p.Description,
		Amount:      p.Amount,
		DueDate:     formatDate(p.DueDate),
		PaidAt:      p.PaidAt,
		Status:      p.Status,
		Overdue:     p.Overdue(now),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
