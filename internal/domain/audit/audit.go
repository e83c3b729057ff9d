// Package audit contiene la lógica pura de presentación del log de auditoría:
// orden, tope de resultados, etiqueta del actor y filtros.
package audit

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// SystemActor etiqueta de entradas sin actor o con actor sin perfil.
const SystemActor = "System"

// MaxEntries tope de entradas devueltas por consulta.
const MaxEntries = 500

// View entrada con el nombre del actor ya resuelto.
type View struct {
	entity.AuditLogEntry
	ActorName string
}

// Filter filtros de la consulta. Campos vacíos no filtran.
type Filter struct {
	Search string             // subcadena sin distinguir mayúsculas: actor, tabla o record id
	Action entity.AuditAction // coincidencia exacta
	Table  string             // coincidencia exacta
}

// Empty informa si el filtro no restringe nada.
func (f Filter) Empty() bool {
	return strings.TrimSpace(f.Search) == "" && f.Action == "" && f.Table == ""
}

// Recent ordena por created_at descendente y aplica el tope.
// El orden entre entradas con igual timestamp se desempata por ID para ser estable.
func Recent(entries []entity.AuditLogEntry, limit int) []entity.AuditLogEntry {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}
	out := make([]entity.AuditLogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ActorLabel nombre para mostrar del actor; "System" si no hay actor o perfil.
func ActorLabel(e entity.AuditLogEntry, names map[string]string) string {
	if e.UserID == nil {
		return SystemActor
	}
	if name, ok := names[*e.UserID]; ok && name != "" {
		return name
	}
	return SystemActor
}

// Join asocia a cada entrada el nombre de su actor (left join por user_id).
func Join(entries []entity.AuditLogEntry, names map[string]string) []View {
	out := make([]View, 0, len(entries))
	for _, e := range entries {
		out = append(out, View{AuditLogEntry: e, ActorName: ActorLabel(e, names)})
	}
	return out
}

// Apply devuelve las vistas que cumplen el filtro, conservando el orden.
func (f Filter) Apply(views []View) []View {
	if f.Empty() {
		return views
	}
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(f.Search))

	out := make([]View, 0, len(views))
	for _, v := range views {
		if f.Action != "" && v.Action != f.Action {
			continue
		}
		if f.Table != "" && v.TableName != f.Table {
			continue
		}
		if needle != "" && !matches(folder, needle, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matches(folder cases.Caser, needle string, v View) bool {
	if strings.Contains(folder.String(v.ActorName), needle) {
		return true
	}
	if strings.Contains(folder.String(v.TableName), needle) {
		return true
	}
	return v.RecordID != nil && strings.Contains(folder.String(*v.RecordID), needle)
}
