// Package pdf genera el informe del log de auditoría en PDF.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + generado por  │  Fecha + N° de entradas   │
//	│  FILTROS aplicados                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Usuario | Acción | Tabla | Registro | IP    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de inmutabilidad                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/audit"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.AuditReportRenderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ports.AuditReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderAuditReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderAuditReport(_ context.Context, report ports.AuditReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Log de auditoría", true).
		WithAuthor(report.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(filterRow(report.Filter))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin entradas para los filtros aplicados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(entryRows(report.Entries)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Las entradas del log de auditoría son inmutables. "+
				fmt.Sprintf("Se muestran como máximo las %d más recientes.", audit.MaxEntries),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report ports.AuditReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("LOG DE AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado por: "+nonEmpty(report.GeneratedBy, audit.SystemActor), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("%d entradas", len(report.Entries)), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func filterRow(f audit.Filter) core.Row {
	desc := "Filtros: ninguno"
	if !f.Empty() {
		desc = fmt.Sprintf("Filtros: búsqueda=%s   |   acción=%s   |   tabla=%s",
			nonEmpty(f.Search, "—"), nonEmpty(string(f.Action), "todas"), nonEmpty(f.Table, "todas"))
	}
	return row.New(7).Add(col.New(12).Add(
		text.New(desc, props.Text{Size: 8, Color: colorGray, Top: 1}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2),
		h("Usuario", 3),
		h("Acción", 1),
		h("Tabla", 2),
		h("Registro", 3),
		h("IP", 1),
	)
}

func entryRows(entries []audit.View) []core.Row {
	result := make([]core.Row, 0, len(entries))
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Top: 1, Left: 1}))
	}
	for _, e := range entries {
		record := "—"
		if e.RecordID != nil {
			record = truncate(*e.RecordID, 40)
		}
		ip := "—"
		if e.IPAddress != nil {
			ip = *e.IPAddress
		}
		result = append(result, row.New(6).Add(
			cell(e.CreatedAt.Format("02/01/2006 15:04:05"), 2),
			cell(truncate(e.ActorName, 40), 3),
			cell(string(e.Action), 1),
			cell(e.TableName, 2),
			cell(record, 3),
			cell(ip, 1),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncate recorta s a n runas añadiendo "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
