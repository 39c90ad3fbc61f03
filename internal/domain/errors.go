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

	// Errores del motor de retenciones/percepciones.
	ErrMissingPartyClassification = errors.New("el tercero no tiene condición fiscal cargada para el impuesto")
	ErrMissingCompanyJurisdiction = errors.New("la empresa no tiene jurisdicción (subdivisión) configurada")
	ErrMissingIssuanceSequence    = errors.New("el régimen no tiene secuencia y la retención no tiene número manual")
	ErrLineDeletionForbidden      = errors.New("no se puede eliminar una retención vinculada a un comprobante contabilizado")
)
