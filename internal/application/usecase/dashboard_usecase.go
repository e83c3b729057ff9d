package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// DashboardUseCase resumen de contratos, pagos y vencimientos.
type DashboardUseCase struct {
	store ports.Store
	guard *access.Guard
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(store ports.Store, guard *access.Guard) *DashboardUseCase {
	return &DashboardUseCase{store: store, guard: guard, now: time.Now}
}

// Summary arma el resumen del tablero.
func (uc *DashboardUseCase) Summary(ctx context.Context, actor authz.Actor) (*dto.DashboardSummaryDTO, error) {
	for _, t := range []entity.Table{entity.TableContracts, entity.TablePayments, entity.TableSuppliers} {
		if err := uc.guard.Check(actor, t, authz.OpSelect, ""); err != nil {
			return nil, err
		}
	}
	repos := uc.store.Repos()
	now := uc.now()

	// 1) Consultas independientes en paralelo
	type contractsResult struct {
		rows []*entity.Contract
		err  error
	}
	type paymentsResult struct {
		rows []*entity.Payment
		err  error
	}
	type suppliersResult struct {
		rows []*entity.Supplier
		err  error
	}
	type expiringResult struct {
		rows []dto.ExpiringContractResponse
		err  error
	}

	cChan := make(chan contractsResult, 1)
	pChan := make(chan paymentsResult, 1)
	sChan := make(chan suppliersResult, 1)
	eChan := make(chan expiringResult, 1)

	go func() {
		rows, err := repos.Contracts.List(ctx, repository.ContractFilter{})
		cChan <- contractsResult{rows, err}
	}()
	go func() {
		rows, err := repos.Payments.ListOpen(ctx)
		pChan <- paymentsResult{rows, err}
	}()
	go func() {
		rows, err := repos.Suppliers.List(ctx, repository.SupplierFilter{OnlyActive: true})
		sChan <- suppliersResult{rows, err}
	}()
	go func() {
		rows, err := expiringContracts(ctx, repos.Contracts, now, DefaultExpiringDays)
		eChan <- expiringResult{rows, err}
	}()

	cRes := <-cChan
	pRes := <-pChan
	sRes := <-sChan
	eRes := <-eChan

	if cRes.err != nil {
		return nil, fmt.Errorf("dashboard: contratos: %w", cRes.err)
	}
	if pRes.err != nil {
		return nil, fmt.Errorf("dashboard: pagos: %w", pRes.err)
	}
	if sRes.err != nil {
		return nil, fmt.Errorf("dashboard: proveedores: %w", sRes.err)
	}
	if eRes.err != nil {
		return nil, fmt.Errorf("dashboard: vencimientos: %w", eRes.err)
	}

	// 2) Agregados
	out := &dto.DashboardSummaryDTO{
		ContractsByStatus:    make(map[string]int, len(entity.ContractStatuses)),
		TotalContracts:       len(cRes.rows),
		ActiveContractsValue: decimal.Zero,
		PendingPaymentsTotal: decimal.Zero,
		OverduePaymentsTotal: decimal.Zero,
		ActiveSuppliers:      len(sRes.rows),
		ExpiringWindowDays:   DefaultExpiringDays,
		ExpiringContracts:    eRes.rows,
	}
	for _, s := range entity.ContractStatuses {
		out.ContractsByStatus[string(s)] = 0
	}
	for _, c := range cRes.rows {
		out.ContractsByStatus[string(c.Status)]++
		if c.Status == entity.ContractAtivo {
			out.ActiveContractsValue = out.ActiveContractsValue.Add(c.Value)
		}
	}
	for _, p := range pRes.rows {
		if p.Overdue(now) {
			out.OverduePaymentsTotal = out.OverduePaymentsTotal.Add(p.Amount)
			out.OverduePaymentsCount++
			continue
		}
		out.PendingPaymentsTotal = out.PendingPaymentsTotal.Add(p.Amount)
		out.PendingPaymentsCount++
	}
	return out, nil
}
