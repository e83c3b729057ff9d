package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

func day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(dto.DateLayout)
}

func contractReq(number string, endOffset int) dto.CreateContractRequest {
	return dto.CreateContractRequest{
		Number:    number,
		Title:     "Contrato " + number,
		Value:     decimal.NewFromInt(12000),
		StartDate: day(-30),
		EndDate:   day(endOffset),
		Status:    string(entity.ContractAtivo),
	}
}

// ─── Proveedores ─────────────────────────────────────────────────────────────

func TestSuppliers_VisualizadorNoPuedeCrear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.suppliers.Create(ctx, viewer, dto.CreateSupplierRequest{Name: "ACME"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := e.suppliers.List(ctx, viewer, repository.SupplierFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "la denegación no deja filas")
	assert.Empty(t, e.auditFor(t, entity.TableSuppliers, entity.AuditInsert))
}

func TestSuppliers_GestorCreaYTodosLoVen(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s, err := e.suppliers.Create(ctx, gestor, dto.CreateSupplierRequest{Name: "  ACME Ltda ", TaxID: "12.345.678/0001-90"})
	require.NoError(t, err)
	assert.Equal(t, "ACME Ltda", s.Name)
	assert.True(t, s.IsActive, "activo por defecto")

	for _, a := range []authz.Actor{admin, viewer} {
		got, err := e.suppliers.GetByID(ctx, a, s.ID)
		require.NoError(t, err, a.Role)
		assert.Equal(t, s.ID, got.ID)
	}

	entries := e.auditFor(t, entity.TableSuppliers, entity.AuditInsert)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, gestorID, *entries[0].UserID)
	assert.Nil(t, entries[0].OldData)
	var snap dto.SupplierResponse
	require.NoError(t, json.Unmarshal(entries[0].NewData, &snap))
	assert.Equal(t, s.ID, snap.ID)

	_, err = e.suppliers.Create(ctx, gestor, dto.CreateSupplierRequest{Name: "Otra", TaxID: "12.345.678/0001-90"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSuppliers_DeleteSoloAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, err := e.suppliers.Create(ctx, gestor, dto.CreateSupplierRequest{Name: "ACME"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.suppliers.Delete(ctx, gestor, s.ID), domain.ErrForbidden)
	require.NoError(t, e.suppliers.Delete(ctx, admin, s.ID))
	assert.ErrorIs(t, e.suppliers.Delete(ctx, admin, s.ID), domain.ErrNotFound)

	deleted := e.auditFor(t, entity.TableSuppliers, entity.AuditDelete)
	require.Len(t, deleted, 1)
	assert.NotNil(t, deleted[0].OldData)
	assert.Nil(t, deleted[0].NewData)
}

// ─── Contratos ───────────────────────────────────────────────────────────────

func TestContracts_VisualizadorDenegadoSinEscritura(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.contracts.Create(ctx, viewer, contractReq("CT-001", 60))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := e.contracts.List(ctx, viewer, repository.ContractFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContracts_CreateEstadoPorDefectoYValidaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := contractReq("CT-001", 60)
	req.Status = ""
	c, err := e.contracts.Create(ctx, gestor, req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ContractRascunho), c.Status)
	assert.Equal(t, gestorID, c.CreatedBy)

	bad := contractReq("CT-002", -40)
	_, err = e.contracts.Create(ctx, gestor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "end_date anterior a start_date")

	bad = contractReq("CT-003", 10)
	bad.StartDate = "01/02/2026"
	_, err = e.contracts.Create(ctx, gestor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = contractReq("CT-004", 10)
	bad.SupplierID = strPtr("00000000-0000-0000-0000-000000000999")
	_, err = e.contracts.Create(ctx, gestor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor inexistente")

	_, err = e.contracts.Create(ctx, gestor, contractReq("CT-001", 90))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "número repetido")
}

func TestContracts_UpdateAuditaAntesYDespues(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, err := e.suppliers.Create(ctx, gestor, dto.CreateSupplierRequest{Name: "ACME"})
	require.NoError(t, err)
	req := contractReq("CT-001", 60)
	req.SupplierID = &s.ID
	c, err := e.contracts.Create(ctx, gestor, req)
	require.NoError(t, err)

	updated, err := e.contracts.Update(ctx, admin, c.ID, dto.UpdateContractRequest{
		Title:         strPtr("Nuevo título"),
		Status:        strPtr(string(entity.ContractSuspenso)),
		ClearSupplier: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo título", updated.Title)
	assert.Equal(t, string(entity.ContractSuspenso), updated.Status)
	assert.Nil(t, updated.SupplierID)

	entries := e.auditFor(t, entity.TableContracts, entity.AuditUpdate)
	require.Len(t, entries, 1)
	var before, after dto.ContractResponse
	require.NoError(t, json.Unmarshal(entries[0].OldData, &before))
	require.NoError(t, json.Unmarshal(entries[0].NewData, &after))
	assert.Equal(t, "Contrato CT-001", before.Title)
	assert.Equal(t, "Nuevo título", after.Title)
	require.NotNil(t, entries[0].IPAddress)
	assert.Equal(t, "10.0.0.1", *entries[0].IPAddress)

	_, err = e.contracts.Update(ctx, gestor, c.ID, dto.UpdateContractRequest{EndDate: strPtr(day(-60))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.contracts.Update(ctx, gestor, "no-existe", dto.UpdateContractRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContracts_DeleteEnCascadaSoloAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c, err := e.contracts.Create(ctx, gestor, contractReq("CT-001", 60))
	require.NoError(t, err)
	_, err = e.obligations.CreateObligation(ctx, gestor, c.ID, dto.CreateObligationRequest{Title: "Entrega mensual"})
	require.NoError(t, err)
	_, err = e.obligations.CreatePayment(ctx, gestor, c.ID, dto.CreatePaymentRequest{Amount: decimal.NewFromInt(1000), DueDate: day(10)})
	require.NoError(t, err)
	doc, err := e.documents.Upload(ctx, gestor, c.ID, "contrato.pdf", samplePDF)
	require.NoError(t, err)

	assert.ErrorIs(t, e.contracts.Delete(ctx, gestor, c.ID), domain.ErrForbidden)
	require.NoError(t, e.contracts.Delete(ctx, admin, c.ID))

	_, err = e.contracts.GetByID(ctx, viewer, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	obligations, err := e.obligations.ListObligations(ctx, viewer, c.ID)
	require.NoError(t, err)
	assert.Empty(t, obligations)
	payments, err := e.obligations.ListPayments(ctx, viewer, c.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	_, err = e.documents.Download(ctx, viewer, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	obj, err := e.store.Repos().Storage.Get(ctx, entity.DocumentsBucket, doc.FilePath)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestContracts_GetByIDDetalle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s, err := e.suppliers.Create(ctx, gestor, dto.CreateSupplierRequest{Name: "ACME"})
	require.NoError(t, err)
	req := contractReq("CT-001", 60)
	req.SupplierID = &s.ID
	c, err := e.contracts.Create(ctx, gestor, req)
	require.NoError(t, err)
	_, err = e.obligations.CreateObligation(ctx, gestor, c.ID, dto.CreateObligationRequest{Title: "Informe"})
	require.NoError(t, err)

	detail, err := e.contracts.GetByID(ctx, viewer, c.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Supplier)
	assert.Equal(t, "ACME", detail.Supplier.Name)
	assert.Len(t, detail.Obligations, 1)
	assert.NotNil(t, detail.Payments, "listas vacías, no nil")
	assert.Empty(t, detail.Documents)
}

func TestContracts_ListFiltraPorEstado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.contracts.Create(ctx, gestor, contractReq("CT-001", 60))
	require.NoError(t, err)
	draft := contractReq("CT-002", 60)
	draft.Status = string(entity.ContractRascunho)
	_, err = e.contracts.Create(ctx, gestor, draft)
	require.NoError(t, err)

	active, err := e.contracts.List(ctx, viewer, repository.ContractFilter{Status: entity.ContractAtivo})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "CT-001", active[0].Number)

	_, err = e.contracts.List(ctx, viewer, repository.ContractFilter{Status: "borrador"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Vencimientos ────────────────────────────────────────────────────────────

func TestContracts_Expiring(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for _, c := range []struct {
		number string
		end    int
		status entity.ContractStatus
	}{
		{"CT-HOY", 0, entity.ContractAtivo},
		{"CT-10", 10, entity.ContractAtivo},
		{"CT-45", 45, entity.ContractAtivo},
		{"CT-VENCIDO", -1, entity.ContractAtivo},
		{"CT-SUSPENSO", 5, entity.ContractSuspenso},
	} {
		req := contractReq(c.number, c.end)
		req.Status = string(c.status)
		_, err := e.contracts.Create(ctx, gestor, req)
		require.NoError(t, err, c.number)
	}

	got, err := e.contracts.Expiring(ctx, viewer, 0)
	require.NoError(t, err)
	require.Len(t, got, 2, "ventana por defecto de 30 días, solo ativos")
	assert.Equal(t, "CT-HOY", got[0].Number)
	assert.Equal(t, 0, got[0].DaysLeft)
	assert.Equal(t, "CT-10", got[1].Number)
	assert.Equal(t, 10, got[1].DaysLeft)

	wide, err := e.contracts.Expiring(ctx, viewer, 60)
	require.NoError(t, err)
	assert.Len(t, wide, 3)

	_, err = e.contracts.Expiring(ctx, viewer, 366)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
