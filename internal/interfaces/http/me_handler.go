package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
)

// MeHandler sesión actual: perfil, capacidades y preferencias.
type MeHandler struct {
	profiles *usecase.ProfileUseCase
	settings *usecase.SettingsUseCase
}

// NewMeHandler construye el handler.
func NewMeHandler(profiles *usecase.ProfileUseCase, settings *usecase.SettingsUseCase) *MeHandler {
	return &MeHandler{profiles: profiles, settings: settings}
}

// Me godoc
// @Summary      Perfil, rol y capacidades del usuario autenticado
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *MeHandler) Me(c *fiber.Ctx) error {
	out, err := h.profiles.Me(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar el perfil propio
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/me/profile [put]
func (h *MeHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	actor := GetActor(c)
	out, err := h.profiles.Update(c.UserContext(), actor, actor.UserID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Matriz de permisos del rol actual
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PermissionsResponse
// @Router       /api/me/permissions [get]
func (h *MeHandler) Permissions(c *fiber.Ctx) error {
	out, err := h.profiles.Permissions(GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSettings godoc
// @Summary      Preferencias de aviso
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NotificationSettingsResponse
// @Router       /api/me/notification-settings [get]
func (h *MeHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar preferencias de aviso
// @Tags         me
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateNotificationSettingsRequest  true  "Preferencias"
// @Success      200   {object}  dto.NotificationSettingsResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/me/notification-settings [put]
func (h *MeHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateNotificationSettingsRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.settings.Update(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
