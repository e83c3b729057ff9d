package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// AuditRecorder agrega entradas al log con fotos JSON antes/después de cada mutación.
// Se invoca con el repo de la misma transacción que la mutación.
type AuditRecorder struct {
	now func() time.Time
	obs ports.Observer
}

// NewAuditRecorder construye el recorder.
func NewAuditRecorder(obs ports.Observer) *AuditRecorder {
	if obs == nil {
		obs = ports.NopObserver{}
	}
	return &AuditRecorder{now: time.Now, obs: obs}
}

// Record escribe una entrada. actor vacío (sin UserID) queda como entrada del sistema.
// before/after nil omiten la foto correspondiente.
func (r *AuditRecorder) Record(
	ctx context.Context,
	repo repository.AuditLogRepository,
	actor authz.Actor,
	action entity.AuditAction,
	table entity.Table,
	recordID string,
	before, after any,
) error {
	oldData, err := snapshot(before)
	if err != nil {
		return err
	}
	newData, err := snapshot(after)
	if err != nil {
		return err
	}
	entry := &entity.AuditLogEntry{
		ID:        uuid.New().String(),
		UserID:    optional(actor.UserID),
		Action:    action,
		TableName: string(table),
		RecordID:  optional(recordID),
		OldData:   oldData,
		NewData:   newData,
		IPAddress: optional(actor.IPAddress),
		CreatedAt: r.now().UTC(),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("registrar auditoría: %w", err)
	}
	r.obs.AuditEntry(entry.TableName, string(action))
	return nil
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar foto de auditoría: %w", err)
	}
	if string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
