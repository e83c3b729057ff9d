package entity

import "time"

// Supplier proveedor contratado. IsActive es su estado de ciclo de vida.
type Supplier struct {
	ID          string
	Name        string
	TaxID       string // CNPJ/CPF; único cuando está presente
	Email       string
	Phone       string
	Address     string
	ContactName string
	IsActive    bool
	CreatedBy   string // vacío = sin dueño registrado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
