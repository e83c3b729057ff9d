package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
)

// UserHandler directorio de perfiles y administración de roles.
type UserHandler struct {
	profiles *usecase.ProfileUseCase
	roles    *usecase.UserRoleUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(profiles *usecase.ProfileUseCase, roles *usecase.UserRoleUseCase) *UserHandler {
	return &UserHandler{profiles: profiles, roles: roles}
}

// ListProfiles godoc
// @Summary      Listar perfiles
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ProfileResponse]
// @Router       /api/profiles [get]
func (h *UserHandler) ListProfiles(c *fiber.Ctx) error {
	out, err := h.profiles.List(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// GetProfile godoc
// @Summary      Obtener perfil por ID
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	out, err := h.profiles.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil (solo el dueño)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.profiles.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios con su rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.UserResponse]
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.roles.ListUsers(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// ChangeRole godoc
// @Summary      Cambiar el rol de un usuario (solo admin, nunca el propio)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "Nuevo rol"
// @Success      200   {object}  dto.UserRoleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.roles.ChangeRole(c.UserContext(), GetActor(c), c.Params("id"), in.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
