package entity

import "time"

// ObligationStatus enum obligation_status.
type ObligationStatus string

const (
	ObligationPendente    ObligationStatus = "pendente"
	ObligationEmAndamento ObligationStatus = "em_andamento"
	ObligationConcluida   ObligationStatus = "concluida"
	ObligationAtrasada    ObligationStatus = "atrasada"
)

// Valid informa si el estado pertenece al enum.
func (s ObligationStatus) Valid() bool {
	switch s {
	case ObligationPendente, ObligationEmAndamento, ObligationConcluida, ObligationAtrasada:
		return true
	}
	return false
}

// Obligation obligación contractual; se elimina en cascada con su contrato.
type Obligation struct {
	ID          string
	ContractID  string
	Title       string
	Description string
	DueDate     *time.Time
	Responsible string
	Status      ObligationStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
