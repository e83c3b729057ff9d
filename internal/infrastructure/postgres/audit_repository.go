package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Contratos-api/internal/domain/audit"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo log de auditoría append-only sobre PostgreSQL.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// Create agrega una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, table_name, record_id, old_data, new_data, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.UserID, string(e.Action), e.TableName, e.RecordID,
		jsonArg(e.OldData), jsonArg(e.NewData), e.IPAddress, e.CreatedAt,
	)
	return classify("insert audit log", err)
}

// ListRecent hasta limit entradas, más recientes primero (tope audit.MaxEntries).
func (r *AuditLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.AuditLogEntry, error) {
	if limit <= 0 || limit > audit.MaxEntries {
		limit = audit.MaxEntries
	}
	query := `
		SELECT id, user_id, action, table_name, record_id, old_data::text, new_data::text, ip_address, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, classify("list audit logs", err)
	}
	defer rows.Close()
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		var action string
		var oldData, newData *string
		if err := rows.Scan(&e.ID, &e.UserID, &action, &e.TableName, &e.RecordID,
			&oldData, &newData, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.Action = entity.AuditAction(action)
		if oldData != nil {
			e.OldData = json.RawMessage(*oldData)
		}
		if newData != nil {
			e.NewData = json.RawMessage(*newData)
		}
		list = append(list, &e)
	}
	return list, classify("list audit logs", rows.Err())
}
