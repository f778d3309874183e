// Package apperrors define la estructura estándar de errores del SDK y su
// mapeo a respuestas HTTP.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la aplicación.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, útil para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is permite comparar con errors.Is contra los errores predefinidos por Code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA para no mutar las variables globales base.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa). Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// FromError intenta convertir un error genérico en un AppError.
// Si no lo es, devuelve un error interno genérico conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// Errores predefinidos.
var (
	// ErrValidation: falta un campo requerido o está vacío. El Detail nombra
	// el campo. Se lanza antes de cualquier llamada de red.
	ErrValidation = &AppError{
		Code:       "validation_error",
		Message:    "missing required parameter",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrAuthorizationRequired: no hay sesión usable; el flujo debe redirigir
	// al endpoint de autorización, no reportar un fallo al usuario.
	ErrAuthorizationRequired = &AppError{
		Code:       "authorization_required",
		Message:    "no usable session, re-authorization required",
		HTTPStatus: http.StatusFound,
	}

	// ErrRefreshFailed: el proveedor rechazó el refresh token. Se trata igual
	// que no tener sesión: fuerza re-autorización.
	ErrRefreshFailed = &AppError{
		Code:       "refresh_failed",
		Message:    "refresh token rejected by provider",
		HTTPStatus: http.StatusFound,
	}

	// ErrRemoteProvider: el proveedor devolvió un errcode a nivel de
	// aplicación. Se expone al caller con código y mensaje intactos.
	ErrRemoteProvider = &AppError{
		Code:       "remote_provider_error",
		Message:    "provider returned an application-level error",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrProtocol: respuesta del proveedor sin campos obligatorios
	// (openid/access_token/expires_in/refresh_token).
	ErrProtocol = &AppError{
		Code:       "protocol_error",
		Message:    "malformed provider response",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrSubscriptionRequired: escritura de remark sobre un usuario que no
	// está suscrito.
	ErrSubscriptionRequired = &AppError{
		Code:       "subscription_required",
		Message:    "the user does not subscribe you",
		HTTPStatus: http.StatusConflict,
	}

	// ErrUnknownGroup: lookup o escritura contra un grupo inexistente.
	ErrUnknownGroup = &AppError{
		Code:       "unknown_group",
		Message:    "no such group",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrNotLoaded: acceso a un campo extendido antes del upgrade explícito.
	ErrNotLoaded = &AppError{
		Code:       "profile_not_loaded",
		Message:    "extended profile not loaded",
		HTTPStatus: http.StatusConflict,
	}

	// ErrInternal: fallback para errores no clasificados.
	ErrInternal = &AppError{
		Code:       "internal_error",
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
	}
)
