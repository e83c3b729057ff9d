package dto

import (
	"encoding/json"
	"time"
)

// AuditLogQuery filtros de GET /api/audit-logs.
type AuditLogQuery struct {
	Search string `query:"search" validate:"omitempty,max=200"`
	Action string `query:"action" validate:"omitempty,oneof=INSERT UPDATE DELETE"`
	Table  string `query:"table" validate:"omitempty,max=100"`
}

// CreateAuditLogRequest escritura manual en el log.
type CreateAuditLogRequest struct {
	Action    string          `json:"action" validate:"required,oneof=INSERT UPDATE DELETE"`
	TableName string          `json:"table_name" validate:"required,min=1,max=100"`
	RecordID  string          `json:"record_id" validate:"omitempty,max=200"`
	OldData   json.RawMessage `json:"old_data" swaggertype:"object"`
	NewData   json.RawMessage `json:"new_data" swaggertype:"object"`
}

// AuditLogResponse entrada del log con el nombre del actor resuelto.
type AuditLogResponse struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	UserName  string          `json:"user_name"`
	Action    string          `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  *string         `json:"record_id"`
	OldData   json.RawMessage `json:"old_data,omitempty" swaggertype:"object"`
	NewData   json.RawMessage `json:"new_data,omitempty" swaggertype:"object"`
	IPAddress *string         `json:"ip_address"`
	CreatedAt time.Time       `json:"created_at"`
}
