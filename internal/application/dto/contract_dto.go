package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContractRequest entrada para crear un contrato. Fechas en formato YYYY-MM-DD.
type CreateContractRequest struct {
	Number      string          `json:"number" validate:"required,min=1,max=50"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	SupplierID  *string         `json:"supplier_id" validate:"omitempty,uuid"`
	Value       decimal.Decimal `json:"value" validate:"gte=0"`
	StartDate   string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status      string          `json:"status" validate:"omitempty,oneof=rascunho ativo suspenso encerrado cancelado"`
	Department  string          `json:"department" validate:"omitempty,max=100"`
}

// UpdateContractRequest cambios de un contrato; nil = sin cambio.
// ClearSupplier=true desvincula el proveedor.
type UpdateContractRequest struct {
	Number        *string          `json:"number" validate:"omitempty,min=1,max=50"`
	Title         *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	SupplierID    *string          `json:"supplier_id" validate:"omitempty,uuid"`
	ClearSupplier bool             `json:"clear_supplier"`
	Value         *decimal.Decimal `json:"value" validate:"omitempty,gte=0"`
	StartDate     *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        *string          `json:"status" validate:"omitempty,oneof=rascunho ativo suspenso encerrado cancelado"`
	Department    *string          `json:"department" validate:"omitempty,max=100"`
}

// ContractResponse salida de un contrato.
type ContractResponse struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	SupplierID  *string         `json:"supplier_id"`
	Value       decimal.Decimal `json:"value"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Status      string          `json:"status"`
	Department  string          `json:"department"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ContractDetailResponse contrato con sus obligaciones, pagos y documentos.
type ContractDetailResponse struct {
	ContractResponse
	Supplier    *SupplierResponse    `json:"supplier,omitempty"`
	Obligations []ObligationResponse `json:"obligations"`
	Payments    []PaymentResponse    `json:"payments"`
	Documents   []DocumentResponse   `json:"documents"`
}

// ExpiringContractResponse contrato próximo a vencer.
type ExpiringContractResponse struct {
	ContractResponse
	DaysLeft int `json:"days_left"`
}

// CreateObligationRequest entrada para crear una obligación.
type CreateObligationRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Responsible string  `json:"responsible" validate:"omitempty,max=200"`
	Status      string  `json:"status" validate:"omitempty,oneof=pendente em_andamento concluida atrasada"`
}

// UpdateObligationRequest cambios de una obligación; nil = sin cambio.
type UpdateObligationRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Responsible *string `json:"responsible" validate:"omitempty,max=200"`
	Status      *string `json:"status" validate:"omitempty,oneof=pendente em_andamento concluida atrasada"`
}

// ObligationResponse salida de una obligación.
type ObligationResponse struct {
	ID          string    `json:"id"`
	ContractID  string    `json:"contract_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Responsible string    `json:"responsible"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePaymentRequest entrada para registrar un pago.
type CreatePaymentRequest struct {
	Description string          `json:"description" validate:"omitempty,max=500"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	PaidAt      *time.Time      `json:"paid_at"`
	Status      string          `json:"status" validate:"omitempty,oneof=pendente pago atrasado cancelado"`
}

// UpdatePaymentRequest cambios de un pago; nil = sin cambio.
type UpdatePaymentRequest struct {
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	DueDate     *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	PaidAt      *time.Time       `json:"paid_at"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pendente pago atrasado cancelado"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID          string          `json:"id"`
	ContractID  string          `json:"contract_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at"`
	Status      string          `json:"status"`
	Overdue     bool            `json:"overdue"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DocumentResponse metadatos de un documento.
type DocumentResponse struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contract_id"`
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SignedURLResponse URL temporal de descarga.
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
