package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/audit"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// AuditUseCase consulta, escritura manual y exportación del log de auditoría.
type AuditUseCase struct {
	store      ports.Store
	guard      *access.Guard
	recorder   *AuditRecorder
	renderer   ports.AuditReportRenderer
	maxEntries int
}

// NewAuditUseCase construye el caso de uso. maxEntries fuera de 1..500 usa 500.
func NewAuditUseCase(store ports.Store, guard *access.Guard, recorder *AuditRecorder, renderer ports.AuditReportRenderer, maxEntries int) *AuditUseCase {
	if maxEntries <= 0 || maxEntries > audit.MaxEntries {
		maxEntries = audit.MaxEntries
	}
	return &AuditUseCase{store: store, guard: guard, recorder: recorder, renderer: renderer, maxEntries: maxEntries}
}

// List entradas más recientes con el nombre del actor, filtradas (solo admin).
func (uc *AuditUseCase) List(ctx context.Context, actor authz.Actor, q dto.AuditLogQuery) ([]dto.AuditLogResponse, error) {
	views, err := uc.views(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(views))
	for _, v := range views {
		out = append(out, viewToAuditLogResponse(v))
	}
	return out, nil
}

// Record escritura manual en el log (cualquier usuario autenticado).
func (uc *AuditUseCase) Record(ctx context.Context, actor authz.Actor, in dto.CreateAuditLogRequest) error {
	if err := uc.guard.Check(actor, entity.TableAuditLogs, authz.OpInsert, ""); err != nil {
		return err
	}
	action := entity.AuditAction(strings.ToUpper(strings.TrimSpace(in.Action)))
	if !action.Valid() {
		return invalid("action debe ser INSERT, UPDATE o DELETE")
	}
	table := strings.TrimSpace(in.TableName)
	if table == "" {
		return invalid("table_name es obligatorio")
	}
	for _, raw := range []json.RawMessage{in.OldData, in.NewData} {
		if len(raw) > 0 && !json.Valid(raw) {
			return invalid("old_data y new_data deben ser JSON válido")
		}
	}
	return uc.store.Run(ctx, func(r ports.Repos) error {
		return uc.recorder.Record(ctx, r.Audit, actor, action, entity.Table(table), strings.TrimSpace(in.RecordID), in.OldData, in.NewData)
	})
}

// ExportPDF informe PDF del resultado filtrado (solo admin).
func (uc *AuditUseCase) ExportPDF(ctx context.Context, actor authz.Actor, q dto.AuditLogQuery) ([]byte, error) {
	views, err := uc.views(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	if uc.renderer == nil {
		return nil, domain.ErrUnavailable
	}
	return uc.renderer.RenderAuditReport(ctx, ports.AuditReport{
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: actor.Email,
		Filter:      queryToFilter(q),
		Entries:     views,
	})
}

func (uc *AuditUseCase) views(ctx context.Context, actor authz.Actor, q dto.AuditLogQuery) ([]audit.View, error) {
	if err := uc.guard.Check(actor, entity.TableAuditLogs, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	filter := queryToFilter(q)
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, invalid("action debe ser INSERT, UPDATE o DELETE")
	}
	repos := uc.store.Repos()
	rows, err := repos.Audit.ListRecent(ctx, uc.maxEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]entity.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			entries = append(entries, *row)
		}
	}
	entries = audit.Recent(entries, uc.maxEntries)

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.UserID == nil {
			continue
		}
		if _, ok := seen[*e.UserID]; ok {
			continue
		}
		seen[*e.UserID] = struct{}{}
		ids = append(ids, *e.UserID)
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		profiles, err := repos.Profiles.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			names[p.ID] = p.DisplayName()
		}
	}
	return filter.Apply(audit.Join(entries, names)), nil
}

func queryToFilter(q dto.AuditLogQuery) audit.Filter {
	return audit.Filter{
		Search: strings.TrimSpace(q.Search),
		Action: entity.AuditAction(strings.ToUpper(strings.TrimSpace(q.Action))),
		Table:  strings.TrimSpace(q.Table),
	}
}

func viewToAuditLogResponse(v audit.View) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        v.ID,
		UserID:    v.UserID,
		UserName:  v.ActorName,
		Action:    string(v.Action),
		TableName: v.TableName,
		RecordID:  v.RecordID,
		OldData:   v.OldData,
		NewData:   v.NewData,
		IPAddress: v.IPAddress,
		CreatedAt: v.CreatedAt,
	}
}
