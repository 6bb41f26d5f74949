// Package errors define o erro de aplicação com status HTTP e contexto.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é o erro de aplicação com status HTTP e contexto
type AppError struct {
	Code    int    `json:"status_code"` // Status HTTP
	Message string `json:"message"`     // Mensagem para o usuário
	Err     error  `json:"-"`           // Erro interno para os logs, não serializado
	Context string `json:"-"`           // Contexto adicional (função, parâmetros)
}

// Error implementa a interface error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap devolve o erro embutido para errors.Is e errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode devolve o status HTTP do erro
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage devolve a mensagem destinada ao usuário
func (e *AppError) UserMessage() string {
	return e.Message
}

// GetContext devolve o contexto do erro
func (e *AppError) GetContext() string {
	return e.Context
}

// WithContext anexa contexto ao erro
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewNotFoundError cria um erro 404 Not Found
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

// NewValidationError cria um erro 400 Bad Request
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewInternalError cria um erro 500 Internal Server Error.
// O usuário recebe uma mensagem genérica, os detalhes ficam nos logs.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Erro interno do servidor",
		Err:     errors.Join(errors.New(message), err),
	}
}

// NewConflictError cria um erro 409 Conflict
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

// WrapError embrulha um erro existente com contexto. Se o erro já é um
// AppError, preserva o status e concatena a mensagem; senão vira um
// InternalError.
func WrapError(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
			Context: appErr.Context,
		}
	}

	return NewInternalError(message, err)
}
