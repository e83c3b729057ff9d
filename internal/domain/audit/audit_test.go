package audit_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/domain/audit"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func entry(id string, userID *string, action entity.AuditAction, table string, recordID *string, at time.Time) entity.AuditLogEntry {
	return entity.AuditLogEntry{ID: id, UserID: userID, Action: action, TableName: table, RecordID: recordID, CreatedAt: at}
}

var base = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRecent_OrdenDescendenteYTope(t *testing.T) {
	var entries []entity.AuditLogEntry
	for i := 0; i < 620; i++ {
		entries = append(entries, entry(fmt.Sprintf("e%04d", i), nil, entity.AuditInsert, "contracts", nil, base.Add(time.Duration(i)*time.Second)))
	}

	got := audit.Recent(entries, 0)
	require.Len(t, got, audit.MaxEntries, "nunca más de 500")
	assert.Equal(t, "e0619", got[0].ID, "la más reciente primero")
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt), "orden descendente en %d", i)
	}

	assert.Len(t, audit.Recent(entries, 1000), audit.MaxEntries, "el tope no se puede superar")
	assert.Len(t, audit.Recent(entries, 10), 10)
}

func TestJoin_ActorSinPerfilEsSystem(t *testing.T) {
	names := map[string]string{"u1": "Ana Souza"}
	entries := []entity.AuditLogEntry{
		entry("1", ptr("u1"), entity.AuditUpdate, "contracts", ptr("c1"), base),
		entry("2", ptr("u-borrado"), entity.AuditDelete, "suppliers", ptr("s1"), base),
		entry("3", nil, entity.AuditInsert, "payments", nil, base),
	}

	views := audit.Join(entries, names)
	require.Len(t, views, 3)
	assert.Equal(t, "Ana Souza", views[0].ActorName)
	assert.Equal(t, audit.SystemActor, views[1].ActorName)
	assert.Equal(t, audit.SystemActor, views[2].ActorName)
}

func TestFilter_Apply(t *testing.T) {
	names := map[string]string{"u1": "João Ávila", "u2": "Maria"}
	views := audit.Join([]entity.AuditLogEntry{
		entry("1", ptr("u1"), entity.AuditUpdate, "contracts", ptr("ABC-123"), base),
		entry("2", ptr("u2"), entity.AuditInsert, "suppliers", ptr("xyz"), base),
		entry("3", nil, entity.AuditDelete, "contracts", nil, base),
	}, names)

	cases := []struct {
		name   string
		filter audit.Filter
		want   []string
	}{
		{"sin filtro", audit.Filter{}, []string{"1", "2", "3"}},
		{"actor sin distinguir mayúsculas", audit.Filter{Search: "JOÃO"}, []string{"1"}},
		{"tabla por subcadena", audit.Filter{Search: "SUPP"}, []string{"2"}},
		{"record id", audit.Filter{Search: "abc-1"}, []string{"1"}},
		{"system", audit.Filter{Search: "system"}, []string{"3"}},
		{"acción exacta", audit.Filter{Action: entity.AuditDelete}, []string{"3"}},
		{"tabla exacta", audit.Filter{Table: "contracts"}, []string{"1", "3"}},
		{"tabla exacta no es subcadena", audit.Filter{Table: "contract"}, nil},
		{"combinado", audit.Filter{Table: "contracts", Action: entity.AuditUpdate, Search: "joão"}, []string{"1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(views)
			var ids []string
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}
