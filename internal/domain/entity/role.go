package entity

import "time"

// Role rol de aplicación (enum app_role).
type Role string

// Roles válidos. RoleUnknown representa una resolución fallida: no otorga capacidades.
const (
	RoleAdmin        Role = "admin"
	RoleGestor       Role = "gestor"
	RoleVisualizador Role = "visualizador"
	RoleUnknown      Role = ""
)

// DefaultRole rol asignado en el alta y cuando no existe fila en user_roles.
const DefaultRole = RoleVisualizador

// Roles lista ordenada de roles válidos.
var Roles = []Role{RoleAdmin, RoleGestor, RoleVisualizador}

// ParseRole convierte un string en Role; ok=false si no es un rol válido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid informa si el rol pertenece al enum.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGestor, RoleVisualizador:
		return true
	}
	return false
}

// CanEdit capacidad derivada: admin o gestor.
func CanEdit(r Role) bool {
	return r == RoleAdmin || r == RoleGestor
}

// IsAdmin capacidad derivada: solo admin.
func IsAdmin(r Role) bool {
	return r == RoleAdmin
}

// UserRole fila de user_roles. Un usuario tiene como máximo una fila.
type UserRole struct {
	ID        string
	UserID    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
