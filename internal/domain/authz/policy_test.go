package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

const (
	userA = "00000000-0000-0000-0000-00000000000a"
	userB = "00000000-0000-0000-0000-00000000000b"
)

// celda esperada: A=admin, G=gestor, V=visualizador, "*"=cualquier autenticado, "owner", "-"=nadie.
type cell string

const (
	all    cell = "*"
	own    cell = "owner"
	none   cell = "-"
	admin  cell = "A"
	editor cell = "AG"
)

// matriz de referencia: select, insert, update, delete.
var expected = map[entity.Table][4]cell{
	entity.TableProfiles:             {all, none, own, none},
	entity.TableUserRoles:            {all, admin, admin, admin},
	entity.TableSuppliers:            {all, editor, editor, admin},
	entity.TableContracts:            {all, editor, editor, admin},
	entity.TableDocuments:            {all, editor, editor, admin},
	entity.TableObligations:          {all, editor, editor, admin},
	entity.TablePayments:             {all, editor, editor, admin},
	entity.TableAuditLogs:            {admin, all, none, none},
	entity.TableNotificationSettings: {own, own, own, none},
	entity.StorageContractDocuments:  {all, editor, none, admin},
}

func roleLetter(r entity.Role) string {
	switch r {
	case entity.RoleAdmin:
		return "A"
	case entity.RoleGestor:
		return "G"
	case entity.RoleVisualizador:
		return "V"
	}
	return "?"
}

func wantAllowed(c cell, role entity.Role, isOwner bool) bool {
	switch c {
	case all:
		return true
	case own:
		return isOwner
	case none:
		return false
	default:
		for _, l := range string(c) {
			if string(l) == roleLetter(role) {
				return true
			}
		}
		return false
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz completa: Authorize devuelve exactamente lo tabulado
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_MatrizCompleta(t *testing.T) {
	p := authz.DefaultPolicy()
	require.Len(t, expected, len(entity.Tables), "la matriz de referencia debe cubrir todas las tablas")

	for table, row := range expected {
		for i, op := range authz.Operations {
			for _, role := range entity.Roles {
				for _, isOwner := range []bool{true, false} {
					actor := authz.Actor{UserID: userA, Role: role}
					ownerID := userB
					if isOwner {
						ownerID = userA
					}
					err := p.Authorize(actor, table, op, ownerID)
					if wantAllowed(row[i], role, isOwner) {
						assert.NoError(t, err, "%s %s %s owner=%v", role, op, table, isOwner)
					} else {
						assert.ErrorIs(t, err, domain.ErrForbidden, "%s %s %s owner=%v", role, op, table, isOwner)
					}
				}
			}
		}
	}
}

func TestDelete_SoloAdminEnTablasDeDominio(t *testing.T) {
	p := authz.DefaultPolicy()
	for _, table := range entity.DomainTables {
		assert.True(t, p.Allows(entity.RoleAdmin, table, authz.OpDelete), table)
		assert.False(t, p.Allows(entity.RoleGestor, table, authz.OpDelete), "gestor no borra en %s", table)
		assert.False(t, p.Allows(entity.RoleVisualizador, table, authz.OpDelete), table)

		// delete es estrictamente más restrictivo que insert/update
		assert.True(t, p.Allows(entity.RoleGestor, table, authz.OpInsert), table)
		assert.True(t, p.Allows(entity.RoleGestor, table, authz.OpUpdate), table)
	}
}

func TestAuthorize_SinIdentidad_Unauthorized(t *testing.T) {
	p := authz.DefaultPolicy()
	err := p.Authorize(authz.Actor{}, entity.TableContracts, authz.OpSelect, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthorize_RolDesconocido_FallaCerrado(t *testing.T) {
	p := authz.DefaultPolicy()
	actor := authz.Actor{UserID: userA, Role: entity.RoleUnknown}

	assert.NoError(t, p.Authorize(actor, entity.TableContracts, authz.OpSelect, ""))
	assert.ErrorIs(t, p.Authorize(actor, entity.TableContracts, authz.OpInsert, ""), domain.ErrForbidden)
	assert.ErrorIs(t, p.Authorize(actor, entity.TableAuditLogs, authz.OpSelect, ""), domain.ErrForbidden)
	assert.False(t, actor.CanEdit())
	assert.False(t, actor.IsAdmin())
}

func TestAuthorize_OwnerVacioNoEsDueño(t *testing.T) {
	p := authz.DefaultPolicy()
	actor := authz.Actor{UserID: userA, Role: entity.RoleAdmin}
	assert.ErrorIs(t, p.Authorize(actor, entity.TableProfiles, authz.OpUpdate, ""), domain.ErrForbidden)
}

func TestAuthorize_TablaDesconocidaDeniega(t *testing.T) {
	p := authz.DefaultPolicy()
	actor := authz.Actor{UserID: userA, Role: entity.RoleAdmin}
	assert.ErrorIs(t, p.Authorize(actor, entity.Table("secrets"), authz.OpSelect, ""), domain.ErrForbidden)
}

func TestMatrix_EspejoDelRol(t *testing.T) {
	p := authz.DefaultPolicy()
	m := p.Matrix(entity.RoleGestor)

	assert.True(t, m[entity.TableContracts][authz.OpInsert])
	assert.False(t, m[entity.TableContracts][authz.OpDelete])
	assert.False(t, m[entity.TableAuditLogs][authz.OpSelect])
	assert.True(t, m[entity.TableNotificationSettings][authz.OpUpdate], "reglas de dueño se muestran para filas propias")
}

func TestCapabilities(t *testing.T) {
	cases := []struct {
		role    entity.Role
		canEdit bool
		isAdmin bool
	}{
		{entity.RoleAdmin, true, true},
		{entity.RoleGestor, true, false},
		{entity.RoleVisualizador, false, false},
		{entity.RoleUnknown, false, false},
	}
	for _, tc := range cases {
		caps := authz.CapabilitiesOf(authz.Actor{UserID: userA, Role: tc.role})
		assert.Equal(t, tc.canEdit, caps.CanEdit, tc.role)
		assert.Equal(t, tc.isAdmin, caps.IsAdmin, tc.role)
		assert.Equal(t, tc.canEdit, entity.CanEdit(tc.role))
		assert.Equal(t, tc.isAdmin, entity.IsAdmin(tc.role))
	}
}
