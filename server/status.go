package server

import (
	"sync"
	"time"
)

// StatusProcessamento é o instantâneo do andamento de uma sessão, alimentado
// pelo callback de progresso do lote.
type StatusProcessamento struct {
	SessionID    string    `json:"session_id"`
	Status       string    `json:"status"`
	Total        int       `json:"total"`
	Processados  int       `json:"processados"`
	ArquivoAtual *string   `json:"arquivo_atual"`
	Erros        []string  `json:"erros"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// statusStore guarda o andamento das sessões em memória. O estado durável
// fica na base do serviço; aqui mora só o instantâneo consultado pelo
// endpoint de status.
type statusStore struct {
	mu       sync.RWMutex
	sessions map[string]*StatusProcessamento
}

func newStatusStore() *statusStore {
	return &statusStore{sessions: make(map[string]*StatusProcessamento)}
}

func (s *statusStore) iniciar(sessionID string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &StatusProcessamento{
		SessionID:    sessionID,
		Status:       "em_andamento",
		Total:        total,
		AtualizadoEm: time.Now().UTC(),
	}
}

func (s *statusStore) progresso(sessionID string, processados, total int, arquivoAtual *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	st.Processados = processados
	st.Total = total
	st.ArquivoAtual = arquivoAtual
	st.AtualizadoEm = time.Now().UTC()
}

func (s *statusStore) finalizar(sessionID, status string, erros []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	st.Status = status
	st.ArquivoAtual = nil
	st.Erros = erros
	st.AtualizadoEm = time.Now().UTC()
}

// obter devolve uma cópia do instantâneo, ou nil quando a sessão não existe.
func (s *statusStore) obter(sessionID string) *StatusProcessamento {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	copia := *st
	return &copia
}
