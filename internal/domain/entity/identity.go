package entity

import "time"

// Identity identidad del subsistema de autenticación (dueña del Profile).
type Identity struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}

// Profile datos editables por su dueño. ID coincide con Identity.ID.
type Profile struct {
	ID         string
	FullName   string
	Email      string
	Department string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName nombre para mostrar: nombre completo o, en su defecto, email.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// NotificationSettings preferencias de aviso del usuario.
type NotificationSettings struct {
	ID               string
	UserID           string
	EmailEnabled     bool
	DaysBeforeExpiry []int
	WeeklySummary    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultDaysBeforeExpiry avisos por defecto antes del vencimiento de un contrato.
func DefaultDaysBeforeExpiry() []int {
	return []int{7, 15, 30}
}
