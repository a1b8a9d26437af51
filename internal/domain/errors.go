package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrConflict indica que el evento ya fue aplicado en el ledger (violación de unicidad).
	// Los llamadores pasivos lo tratan como éxito sin efecto.
	ErrConflict = errors.New("evento ya aplicado")

	// ErrTransientStore falla de red o del almacén en lectura/escritura; se puede reintentar.
	ErrTransientStore = errors.New("almacén no disponible")

	// ErrNotReturnable el ítem no está iniciado o ya fue devuelto.
	ErrNotReturnable = errors.New("ítem no devolvible")
)
