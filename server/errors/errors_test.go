package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "com erro interno",
			err:  NewValidationError("diretório inválido", errors.New("stat falhou")),
			want: "diretório inválido: stat falhou",
		},
		{
			name: "sem erro interno",
			err:  NewNotFoundError("sessão não encontrada", nil),
			want: "sessão não encontrada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewInternalErrorEscondeDetalhes(t *testing.T) {
	err := NewInternalError("falha ao gravar arquivo", errors.New("disk full"))

	if err.UserMessage() != "Erro interno do servidor" {
		t.Errorf("UserMessage() = %q", err.UserMessage())
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d", err.StatusCode())
	}
	if err.Err == nil {
		t.Error("Err = nil, want detalhes para o log")
	}
}

func TestWrapErrorPreservaAppError(t *testing.T) {
	original := NewNotFoundError("sessão não encontrada", nil)

	wrapped := WrapError(original, "falha ao consultar status")
	if wrapped.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want 404", wrapped.StatusCode())
	}
	if wrapped.UserMessage() != "falha ao consultar status: sessão não encontrada" {
		t.Errorf("UserMessage() = %q", wrapped.UserMessage())
	}
}

func TestWrapErrorGenerico(t *testing.T) {
	wrapped := WrapError(errors.New("io timeout"), "falha ao processar")
	if wrapped.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want 500", wrapped.StatusCode())
	}
}

func TestWrapErrorNil(t *testing.T) {
	if WrapError(nil, "qualquer") != nil {
		t.Error("WrapError(nil) != nil")
	}
}

func TestErrorsAs(t *testing.T) {
	var appErr *AppError
	err := error(NewValidationError("entrada inválida", nil))
	if !errors.As(err, &appErr) {
		t.Error("errors.As() = false, want true")
	}
}
