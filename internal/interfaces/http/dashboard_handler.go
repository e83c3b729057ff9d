package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/usecase"
)

// DashboardHandler maneja el endpoint del tablero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de contratos, pagos abiertos y vencimientos.
// GET /api/dashboard
//
// Respuesta: DashboardSummaryDTO (contracts_by_status, active_contracts_value,
// pending/overdue payments, expiring_contracts de los próximos 30 días).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
