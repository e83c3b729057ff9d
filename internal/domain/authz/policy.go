// Package authz contiene la matriz de permisos (tabla × operación → audiencia).
// Es la copia autoritativa: los casos de uso la consultan antes de tocar el
// repositorio y la capa HTTP la usa para el espejo de capacidades del cliente.
package authz

import (
	"fmt"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// Operation operación sobre una tabla.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Operations orden estable para iterar la matriz.
var Operations = []Operation{OpSelect, OpInsert, OpUpdate, OpDelete}

type audience int

const (
	nobody audience = iota
	authenticated
	owner
	roles
)

// Rule regla de una celda de la matriz.
type Rule struct {
	audience audience
	roles    map[entity.Role]struct{}
}

func deny() Rule      { return Rule{audience: nobody} }
func anyone() Rule    { return Rule{audience: authenticated} }
func ownerOnly() Rule { return Rule{audience: owner} }
func only(rs ...entity.Role) Rule {
	set := make(map[entity.Role]struct{}, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return Rule{audience: roles, roles: set}
}

// String describe la regla (logs y errores).
func (r Rule) String() string {
	switch r.audience {
	case authenticated:
		return "authenticated"
	case owner:
		return "owner"
	case roles:
		out := ""
		for _, role := range entity.Roles {
			if _, ok := r.roles[role]; ok {
				if out != "" {
					out += "|"
				}
				out += string(role)
			}
		}
		return out
	default:
		return "nobody"
	}
}

// Policy matriz completa de permisos.
type Policy struct {
	rules map[entity.Table]map[Operation]Rule
}

// DefaultPolicy matriz de la aplicación. Delete en tablas de dominio es solo admin.
func DefaultPolicy() *Policy {
	editors := only(entity.RoleAdmin, entity.RoleGestor)
	admin := only(entity.RoleAdmin)

	domainRules := func() map[Operation]Rule {
		return map[Operation]Rule{OpSelect: anyone(), OpInsert: editors, OpUpdate: editors, OpDelete: admin}
	}

	p := &Policy{rules: map[entity.Table]map[Operation]Rule{
		entity.TableProfiles:  {OpSelect: anyone(), OpInsert: deny(), OpUpdate: ownerOnly(), OpDelete: deny()},
		entity.TableUserRoles: {OpSelect: anyone(), OpInsert: admin, OpUpdate: admin, OpDelete: admin},
		entity.TableAuditLogs: {OpSelect: admin, OpInsert: anyone(), OpUpdate: deny(), OpDelete: deny()},
		entity.TableNotificationSettings: {
			OpSelect: ownerOnly(), OpInsert: ownerOnly(), OpUpdate: ownerOnly(), OpDelete: deny(),
		},
		entity.StorageContractDocuments: {OpSelect: anyone(), OpInsert: editors, OpUpdate: deny(), OpDelete: admin},
	}}
	for _, t := range entity.DomainTables {
		p.rules[t] = domainRules()
	}
	return p
}

// Rule devuelve la regla de la celda; tablas u operaciones desconocidas deniegan.
func (p *Policy) Rule(table entity.Table, op Operation) Rule {
	ops, ok := p.rules[table]
	if !ok {
		return deny()
	}
	r, ok := ops[op]
	if !ok {
		return deny()
	}
	return r
}

// Allows predicado puro (rol, operación, tabla). Las reglas de dueño se evalúan
// suponiendo que la fila pertenece al actor; un rol desconocido solo pasa reglas
// de "cualquier autenticado" o de dueño.
func (p *Policy) Allows(role entity.Role, table entity.Table, op Operation) bool {
	r := p.Rule(table, op)
	switch r.audience {
	case authenticated, owner:
		return true
	case roles:
		_, ok := r.roles[role]
		return ok
	default:
		return false
	}
}

// Authorize decide para un actor concreto. ownerID es el dueño de la fila
// (solo se usa en reglas de dueño). Devuelve ErrUnauthorized sin identidad y
// ErrForbidden al denegar.
func (p *Policy) Authorize(a Actor, table entity.Table, op Operation, ownerID string) error {
	if !a.Authenticated() {
		return domain.ErrUnauthorized
	}
	r := p.Rule(table, op)
	switch r.audience {
	case authenticated:
		return nil
	case owner:
		if ownerID != "" && ownerID == a.UserID {
			return nil
		}
	case roles:
		if _, ok := r.roles[a.Role]; ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s sobre %s requiere %s", domain.ErrForbidden, op, table, r)
}

// Matrix evalúa Allows para todas las celdas (espejo de capacidades del cliente).
func (p *Policy) Matrix(role entity.Role) map[entity.Table]map[Operation]bool {
	out := make(map[entity.Table]map[Operation]bool, len(entity.Tables))
	for _, t := range entity.Tables {
		row := make(map[Operation]bool, len(Operations))
		for _, op := range Operations {
			row[op] = p.Allows(role, t, op)
		}
		out[t] = row
	}
	return out
}
