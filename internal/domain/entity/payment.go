package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago (columna status de texto libre restringida por CHECK).
const (
	PaymentPendente  = "pendente"
	PaymentPago      = "pago"
	PaymentAtrasado  = "atrasado"
	PaymentCancelado = "cancelado"
)

// ValidPaymentStatus informa si s es un estado de pago permitido.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPendente, PaymentPago, PaymentAtrasado, PaymentCancelado:
		return true
	}
	return false
}

// Payment pago asociado a un contrato.
type Payment struct {
	ID          string
	ContractID  string
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	PaidAt      *time.Time
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue informa si el pago sigue abierto después de su vencimiento.
func (p *Payment) Overdue(now time.Time) bool {
	if p.Status == PaymentAtrasado {
		return true
	}
	return p.Status == PaymentPendente && truncateDay(p.DueDate).Before(truncateDay(now))
}
