package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus enum contract_status.
type ContractStatus string

const (
	ContractRascunho  ContractStatus = "rascunho"
	ContractAtivo     ContractStatus = "ativo"
	ContractSuspenso  ContractStatus = "suspenso"
	ContractEncerrado ContractStatus = "encerrado"
	ContractCancelado ContractStatus = "cancelado"
)

// ContractStatuses valores válidos en orden de ciclo de vida.
var ContractStatuses = []ContractStatus{ContractRascunho, ContractAtivo, ContractSuspenso, ContractEncerrado, ContractCancelado}

// Valid informa si el estado pertenece al enum.
func (s ContractStatus) Valid() bool {
	for _, v := range ContractStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Contract contrato con un proveedor (opcional).
type Contract struct {
	ID          string
	Number      string
	Title       string
	Description string
	SupplierID  *string
	Value       decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Status      ContractStatus
	Department  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpiresWithin informa si el contrato vence en [from, from+days].
func (c *Contract) ExpiresWithin(from time.Time, days int) bool {
	if c.EndDate.IsZero() {
		return false
	}
	start := truncateDay(from)
	end := start.AddDate(0, 0, days)
	d := truncateDay(c.EndDate)
	return !d.Before(start) && !d.After(end)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
