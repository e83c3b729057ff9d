package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSelfRoleChange     = errors.New("un administrador no puede cambiar su propio rol")
	ErrUnsupportedFile    = errors.New("solo se aceptan archivos PDF")
	ErrFileTooLarge       = errors.New("el archivo supera el tamaño máximo permitido")
	// ErrUnavailable agrupa fallos transitorios (red, timeout, pool agotado); admite reintento.
	ErrUnavailable = errors.New("servicio no disponible temporalmente")
)

// IsTransient informa si el error admite reintento.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
