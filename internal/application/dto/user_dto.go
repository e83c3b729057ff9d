package dto

import "time"

// RegisterRequest entrada para el alta de una identidad.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT + sesión resuelta.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      MeResponse `json:"user"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateProfileRequest campos editables por el dueño del perfil.
type UpdateProfileRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
}

// CapabilitiesResponse banderas derivadas del rol.
type CapabilitiesResponse struct {
	Role    string `json:"role"`
	CanEdit bool   `json:"can_edit"`
	IsAdmin bool   `json:"is_admin"`
}

// MeResponse perfil del usuario autenticado con su rol y capacidades.
type MeResponse struct {
	Profile      ProfileResponse      `json:"profile"`
	Capabilities CapabilitiesResponse `json:"capabilities"`
}

// PermissionsResponse matriz de permisos evaluada para el rol del usuario.
type PermissionsResponse struct {
	CapabilitiesResponse
	Matrix map[string]map[string]bool `json:"matrix"`
}

// UserResponse perfil con su rol (listado de usuarios).
type UserResponse struct {
	ProfileResponse
	Role string `json:"role"`
}

// ChangeRoleRequest nuevo rol de un usuario.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin gestor visualizador"`
}

// UserRoleResponse fila de user_roles.
type UserRoleResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationSettingsResponse preferencias de aviso.
type NotificationSettingsResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EmailEnabled     bool      `json:"email_enabled"`
	DaysBeforeExpiry []int     `json:"days_before_expiry"`
	WeeklySummary    bool      `json:"weekly_summary"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UpdateNotificationSettingsRequest cambios de preferencias; nil = sin cambio.
type UpdateNotificationSettingsRequest struct {
	EmailEnabled     *bool `json:"email_enabled"`
	DaysBeforeExpiry []int `json:"days_before_expiry" validate:"omitempty,max=10,dive,min=1,max=365"`
	WeeklySummary    *bool `json:"weekly_summary"`
}
