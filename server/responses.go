package server

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "licitaserver/server/errors"
	"licitaserver/server/middleware"
)

// ErrorResponse estrutura de resposta de erro
type ErrorResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// sendJSONError escreve uma resposta de erro em JSON
func sendJSONError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:     true,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: middleware.GetRequestIDFromGin(c),
	})
}

// handleAppError loga o erro e responde com o status e a mensagem adequados.
// Erros que não são AppError viram 500 com mensagem genérica.
func (s *Server) handleAppError(c *gin.Context, err error, contexto string) {
	appErr := apperrors.WrapError(err, contexto)

	var inner *apperrors.AppError
	if !errors.As(err, &inner) {
		inner = appErr
	}

	LogError(c.Request.Context(), inner.Err, contexto,
		"status_code", appErr.StatusCode(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	sendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
}
