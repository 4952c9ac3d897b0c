package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrHandleTaken        = errors.New("HANDLE_TAKEN")
	ErrCedulaTaken        = errors.New("CEDULA_TAKEN")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrPedidoNotFound     = errors.New("PEDIDO_NOT_FOUND")
	ErrEmptyLineas        = errors.New("EMPTY_LINEAS")
	ErrInvalidLinea       = errors.New("INVALID_LINEA")
	ErrMissingCliente     = errors.New("MISSING_CLIENTE")
	ErrInvalidTransition  = errors.New("INVALID_TRANSITION")
	ErrBadgeNotFound      = errors.New("BADGE_NOT_FOUND")
	ErrNoCompletedPedidos = errors.New("NO_COMPLETED_PEDIDOS")
	ErrInvalidImagen      = errors.New("INVALID_IMAGEN")
)
