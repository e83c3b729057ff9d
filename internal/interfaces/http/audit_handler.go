package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
)

// AuditHandler log de auditoría.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar el log de auditoría (solo admin)
// @Description  Últimas 500 entradas, más recientes primero, con filtros opcionales.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto libre: usuario, tabla o registro"
// @Param        action  query  string  false  "INSERT | UPDATE | DELETE"
// @Param        table   query  string  false  "Nombre exacto de la tabla"
// @Success      200     {object}  dto.ListResponse[dto.AuditLogResponse]
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditLogQuery
	if !bindQueryAndValidate(c, &q) {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Create godoc
// @Summary      Registrar una entrada manual en el log
// @Tags         audit
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateAuditLogRequest  true  "Entrada"
// @Success      201
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/audit-logs [post]
func (h *AuditHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAuditLogRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	if err := h.uc.Record(c.UserContext(), GetActor(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ExportPDF godoc
// @Summary      Exportar el log filtrado a PDF (solo admin)
// @Tags         audit
// @Security     Bearer
// @Produce      application/pdf
// @Param        search  query  string  false  "Texto libre"
// @Param        action  query  string  false  "INSERT | UPDATE | DELETE"
// @Param        table   query  string  false  "Nombre exacto de la tabla"
// @Success      200     {file}  binary
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/audit-logs/export.pdf [get]
func (h *AuditHandler) ExportPDF(c *fiber.Ctx) error {
	var q dto.AuditLogQuery
	if !bindQueryAndValidate(c, &q) {
		return nil
	}
	pdf, err := h.uc.ExportPDF(c.UserContext(), GetActor(c), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=auditoria_%s.pdf", time.Now().UTC().Format("20060102_150405")))
	return c.Send(pdf)
}
