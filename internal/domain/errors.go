package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrInvalidAmount   = errors.New("monto inválido")
	ErrDebtAlreadyPaid = errors.New("la deuda ya está pagada")
	ErrOTPExpired      = errors.New("código OTP expirado o no solicitado")
	ErrOTPMismatch     = errors.New("código OTP incorrecto")
)
