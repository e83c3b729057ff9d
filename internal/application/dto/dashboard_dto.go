package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	// Contratos por estado (todas las claves de contract_status presentes)
	ContractsByStatus map[string]int `json:"contracts_by_status"`
	TotalContracts    int            `json:"total_contracts"`

	// Valor total de los contratos en estado ativo
	ActiveContractsValue decimal.Decimal `json:"active_contracts_value"`

	// Pagos abiertos: pendientes dentro de plazo y vencidos
	PendingPaymentsTotal decimal.Decimal `json:"pending_payments_total"`
	PendingPaymentsCount int             `json:"pending_payments_count"`
	OverduePaymentsTotal decimal.Decimal `json:"overdue_payments_total"`
	OverduePaymentsCount int             `json:"overdue_payments_count"`

	ActiveSuppliers int `json:"active_suppliers"`

	// Contratos ativos que vencen en los próximos ExpiringWindowDays días
	ExpiringWindowDays int                        `json:"expiring_window_days"`
	ExpiringContracts  []ExpiringContractResponse `json:"expiring_contracts"`
}
