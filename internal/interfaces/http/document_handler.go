package http

import (
	"fmt"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain"
)

// DocumentHandler subida, descarga y URLs firmadas de documentos PDF.
type DocumentHandler struct {
	uc       *usecase.DocumentUseCase
	maxBytes int64
}

// NewDocumentHandler construye el handler. maxBytes limita la lectura del archivo subido.
func NewDocumentHandler(uc *usecase.DocumentUseCase, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{uc: uc, maxBytes: maxBytes}
}

// List godoc
// @Summary      Documentos de un contrato
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ListResponse[dto.DocumentResponse]
// @Router       /api/contracts/{id}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// Upload godoc
// @Summary      Subir documento PDF
// @Tags         documents
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID del contrato"
// @Param        file  formData  file    true  "Archivo PDF"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return writeError(c, domain.ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	var r io.Reader = f
	if h.maxBytes > 0 {
		r = io.LimitReader(f, h.maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	out, err := h.uc.Upload(c.UserContext(), GetActor(c), c.Params("id"), fh.Filename, content)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Metadatos de un documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar documento
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file, "attachment")
}

// Delete godoc
// @Summary      Eliminar documento y su archivo (solo admin)
// @Tags         documents
// @Security     Bearer
// @Param        id   path  string  true  "ID del documento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SignedURL godoc
// @Summary      URL de descarga temporal (60 s)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.SignedURLResponse
// @Router       /api/documents/{id}/signed-url [post]
func (h *DocumentHandler) SignedURL(c *fiber.Ctx) error {
	out, err := h.uc.SignedURL(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OpenSigned godoc
// @Summary      Servir un documento mediante URL firmada
// @Tags         documents
// @Produce      application/pdf
// @Param        token  path  string  true  "Token de la URL firmada"
// @Success      200    {file}  binary
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /api/storage/signed/{token} [get]
func (h *DocumentHandler) OpenSigned(c *fiber.Ctx) error {
	file, err := h.uc.OpenSigned(c.UserContext(), c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file, "inline")
}

func sendFile(c *fiber.Ctx, file *usecase.DocumentFile, disposition string) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename*=UTF-8''%s", disposition, url.PathEscape(file.Name)))
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Send(file.Content)
}
