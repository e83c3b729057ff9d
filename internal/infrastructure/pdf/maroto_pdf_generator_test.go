package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/audit"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/pdf"
)

func TestRenderAuditReport_GeneraPDF(t *testing.T) {
	uid := "u1"
	rec := "c1"
	ip := "10.0.0.1"
	report := ports.AuditReport{
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		GeneratedBy: "Ana Admin",
		Filter:      audit.Filter{Action: entity.AuditDelete},
		Entries: []audit.View{
			{
				AuditLogEntry: entity.AuditLogEntry{
					ID: "e1", UserID: &uid, Action: entity.AuditDelete, TableName: "contracts",
					RecordID: &rec, IPAddress: &ip, CreatedAt: time.Now(),
				},
				ActorName: "Ana Admin",
			},
			{
				AuditLogEntry: entity.AuditLogEntry{ID: "e2", Action: entity.AuditDelete, TableName: "payments", CreatedAt: time.Now()},
				ActorName:     audit.SystemActor,
			},
		},
	}

	out, err := pdf.NewMarotoPDFGenerator().RenderAuditReport(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, mimetype.Detect(out).Is("application/pdf"))
}

func TestRenderAuditReport_SinEntradas(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator().RenderAuditReport(context.Background(), ports.AuditReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
