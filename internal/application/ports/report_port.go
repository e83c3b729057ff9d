package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Contratos-api/internal/domain/audit"
)

// AuditReport contenido del informe exportable del log de auditoría.
type AuditReport struct {
	GeneratedAt time.Time
	GeneratedBy string
	Filter      audit.Filter
	Entries     []audit.View
}

// AuditReportRenderer genera la representación binaria (PDF) del informe.
type AuditReportRenderer interface {
	RenderAuditReport(ctx context.Context, report AuditReport) ([]byte, error)
}
