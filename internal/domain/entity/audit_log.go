package entity

import (
	"encoding/json"
	"time"
)

// AuditAction tipo de operación registrada.
type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Valid informa si la acción es INSERT, UPDATE o DELETE.
func (a AuditAction) Valid() bool {
	return a == AuditInsert || a == AuditUpdate || a == AuditDelete
}

// AuditLogEntry entrada inmutable del log de auditoría.
// UserID nil = entrada originada por el sistema.
type AuditLogEntry struct {
	ID        string
	UserID    *string
	Action    AuditAction
	TableName string
	RecordID  *string
	OldData   json.RawMessage
	NewData   json.RawMessage
	IPAddress *string
	CreatedAt time.Time
}
