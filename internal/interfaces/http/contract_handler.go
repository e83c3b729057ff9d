package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// ContractHandler contratos, obligaciones y pagos.
type ContractHandler struct {
	contracts   *usecase.ContractUseCase
	obligations *usecase.ObligationUseCase
}

// NewContractHandler construye el handler.
func NewContractHandler(contracts *usecase.ContractUseCase, obligations *usecase.ObligationUseCase) *ContractHandler {
	return &ContractHandler{contracts: contracts, obligations: obligations}
}

// List godoc
// @Summary      Listar contratos
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "rascunho | ativo | suspenso | encerrado | cancelado"
// @Param        supplier_id  query  string  false  "ID del proveedor"
// @Param        search       query  string  false  "Número o título"
// @Success      200          {object}  dto.ListResponse[dto.ContractResponse]
// @Router       /api/contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
	filter := repository.ContractFilter{
		Status:     entity.ContractStatus(c.Query("status")),
		SupplierID: c.Query("supplier_id"),
		Search:     c.Query("search"),
	}
	out, err := h.contracts.List(c.UserContext(), GetActor(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Expiring godoc
// @Summary      Contratos activos próximos a vencer
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (1-365)"  default(30)
// @Success      200   {object}  dto.ListResponse[dto.ExpiringContractResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contracts/expiring [get]
func (h *ContractHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", usecase.DefaultExpiringDays)
	out, err := h.contracts.Expiring(c.UserContext(), GetActor(c), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetByID godoc
// @Summary      Obtener contrato con obligaciones, pagos y documentos
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ContractDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.contracts.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear contrato
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContractRequest  true  "Datos del contrato"
// @Success      201   {object}  dto.ContractResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.contracts.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar contrato
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del contrato"
// @Param        body  body  dto.UpdateContractRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ContractResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [put]
func (h *ContractHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateContractRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.contracts.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar contrato (solo admin)
// @Tags         contracts
// @Security     Bearer
// @Param        id   path  string  true  "ID del contrato"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	if err := h.contracts.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListObligations godoc
// @Summary      Obligaciones de un contrato
// @Tags         obligations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ListResponse[dto.ObligationResponse]
// @Router       /api/contracts/{id}/obligations [get]
func (h *ContractHandler) ListObligations(c *fiber.Ctx) error {
	out, err := h.obligations.ListObligations(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// CreateObligation godoc
// @Summary      Crear obligación
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del contrato"
// @Param        body  body  dto.CreateObligationRequest  true  "Datos de la obligación"
// @Success      201   {object}  dto.ObligationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/obligations [post]
func (h *ContractHandler) CreateObligation(c *fiber.Ctx) error {
	var in dto.CreateObligationRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.obligations.CreateObligation(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateObligation godoc
// @Summary      Actualizar obligación
// @Tags         obligations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la obligación"
// @Param        body  body  dto.UpdateObligationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ObligationResponse
// @Router       /api/obligations/{id} [put]
func (h *ContractHandler) UpdateObligation(c *fiber.Ctx) error {
	var in dto.UpdateObligationRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.obligations.UpdateObligation(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteObligation godoc
// @Summary      Eliminar obligación (solo admin)
// @Tags         obligations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la obligación"
// @Success      204
// @Router       /api/obligations/{id} [delete]
func (h *ContractHandler) DeleteObligation(c *fiber.Ctx) error {
	if err := h.obligations.DeleteObligation(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPayments godoc
// @Summary      Pagos de un contrato
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ListResponse[dto.PaymentResponse]
// @Router       /api/contracts/{id}/payments [get]
func (h *ContractHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.obligations.ListPayments(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// CreatePayment godoc
// @Summary      Registrar pago
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del contrato"
// @Param        body  body  dto.CreatePaymentRequest  true  "Datos del pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/payments [post]
func (h *ContractHandler) CreatePayment(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.obligations.CreatePayment(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePayment godoc
// @Summary      Actualizar pago
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pago"
// @Param        body  body  dto.UpdatePaymentRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.PaymentResponse
// @Router       /api/payments/{id} [put]
func (h *ContractHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdatePaymentRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.obligations.UpdatePayment(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePayment godoc
// @Summary      Eliminar pago (solo admin)
// @Tags         payments
// @Security     Bearer
// @Param        id   path  string  true  "ID del pago"
// @Success      204
// @Router       /api/payments/{id} [delete]
func (h *ContractHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.obligations.DeletePayment(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
