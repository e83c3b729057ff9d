package authz

import "github.com/jhoicas/Contratos-api/internal/domain/entity"

// Actor sesión explícita de la petición: identidad autenticada + rol resuelto en servidor.
// Se pasa a los casos de uso en lugar de leer estado global.
type Actor struct {
	UserID    string
	Email     string
	Role      entity.Role // RoleUnknown si la resolución falló
	IPAddress string
}

// Authenticated informa si hay identidad.
func (a Actor) Authenticated() bool { return a.UserID != "" }

// CanEdit capacidad de UI: admin o gestor.
func (a Actor) CanEdit() bool { return a.Authenticated() && entity.CanEdit(a.Role) }

// IsAdmin capacidad de UI: admin.
func (a Actor) IsAdmin() bool { return a.Authenticated() && entity.IsAdmin(a.Role) }

// Capabilities banderas derivadas del rol que consume el cliente.
type Capabilities struct {
	Role    entity.Role `json:"role"`
	CanEdit bool        `json:"can_edit"`
	IsAdmin bool        `json:"is_admin"`
}

// CapabilitiesOf deriva las capacidades de un actor.
func CapabilitiesOf(a Actor) Capabilities {
	return Capabilities{Role: a.Role, CanEdit: a.CanEdit(), IsAdmin: a.IsAdmin()}
}
