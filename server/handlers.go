package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"licitaserver/consolidation"
	"licitaserver/database"
	"licitaserver/internal/config"
	apperrors "licitaserver/server/errors"
	"licitaserver/sicaf"
)

// ProcessarArquivoRequest corpo do processamento de um documento
type ProcessarArquivoRequest struct {
	CaminhoArquivo string `json:"caminho_arquivo" binding:"required"`
	OutputDir      string `json:"output_dir" binding:"required"`
}

// ProcessarDiretorioRequest corpo do processamento de um diretório
type ProcessarDiretorioRequest struct {
	Diretorio string `json:"diretorio" binding:"required"`
	OutputDir string `json:"output_dir" binding:"required"`
}

// ProcessarDiretorioResponse resposta do disparo de um lote
type ProcessarDiretorioResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// PropostasResponse resposta com as propostas de uma sessão
type PropostasResponse struct {
	Total     int `json:"total"`
	Propostas any `json:"propostas"`
}

// SalvarConsolidadoRequest corpo da gravação do JSON consolidado
type SalvarConsolidadoRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	OutputDir string `json:"output_dir" binding:"required"`
}

// ExportarConsolidadoRequest corpo da exportação tabular
type ExportarConsolidadoRequest struct {
	SessionID      string `json:"session_id" binding:"required"`
	Formato        string `json:"formato" binding:"required"`
	CaminhoArquivo string `json:"caminho_arquivo" binding:"required"`
}

// ProcessarSicafRequest corpo do processamento de certificados SICAF
type ProcessarSicafRequest struct {
	Diretorio string `json:"diretorio" binding:"required"`
	OutputDir string `json:"output_dir"`
}

// CompararSicafRequest corpo do cruzamento propostas × SICAF
type CompararSicafRequest struct {
	SicafSessionID     string `json:"sicaf_session_id" binding:"required"`
	LicitacaoSessionID string `json:"licitacao_session_id" binding:"required"`
	OutputDir          string `json:"output_dir"`
}

// VerificarCNPJResponse resposta da consulta de presença no SICAF
type VerificarCNPJResponse struct {
	CNPJ       string `json:"cnpj"`
	Encontrado bool   `json:"encontrado"`
}

// handleProcessarArquivo processa uma única ata
// @Summary Processar uma ata de licitação
// @Description Extrai as propostas adjudicadas de um documento, grava o relatório Markdown e devolve as propostas consolidadas
// @Tags licitacoes
// @Accept json
// @Produce json
// @Param request body ProcessarArquivoRequest true "Caminho do documento e diretório de saída"
// @Success 200 {object} PropostasResponse "Propostas extraídas"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 404 {object} ErrorResponse "Documento não encontrado"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /licitacoes/processar-arquivo [post]
func (s *Server) handleProcessarArquivo(c *gin.Context) {
	var req ProcessarArquivoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: caminho_arquivo e output_dir são obrigatórios")
		return
	}

	if !s.processor.Extrator.Suporta(req.CaminhoArquivo) {
		s.handleAppError(c, apperrors.NewValidationError("extensão de arquivo não suportada", nil), "processar arquivo")
		return
	}

	propostas, err := s.processor.ProcessarArquivo(req.CaminhoArquivo, req.OutputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.handleAppError(c, apperrors.NewNotFoundError("documento não encontrado", err), "processar arquivo")
			return
		}
		s.handleAppError(c, err, "falha ao processar o documento")
		return
	}

	c.JSON(http.StatusOK, PropostasResponse{
		Total:     len(propostas),
		Propostas: propostas,
	})
}

// handleProcessarDiretorio dispara o processamento assíncrono de um lote
// @Summary Processar um diretório de atas
// @Description Dispara o processamento em lote de um diretório; o andamento é consultado pelo endpoint de status
// @Tags licitacoes
// @Accept json
// @Produce json
// @Param request body ProcessarDiretorioRequest true "Diretório de entrada e diretório de saída"
// @Success 202 {object} ProcessarDiretorioResponse "Sessão criada"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /licitacoes/processar-diretorio [post]
func (s *Server) handleProcessarDiretorio(c *gin.Context) {
	var req ProcessarDiretorioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: diretorio e output_dir são obrigatórios")
		return
	}

	sessionID := "lic_" + uuid.NewString()
	if err := s.db.CriarSessao(sessionID, database.SessaoLicitacoes, req.Diretorio, 0); err != nil {
		s.handleAppError(c, err, "falha ao criar a sessão de processamento")
		return
	}
	s.status.iniciar(sessionID, 0)

	go s.executarLote(sessionID, req.Diretorio, req.OutputDir)

	c.JSON(http.StatusAccepted, ProcessarDiretorioResponse{
		SessionID: sessionID,
		Status:    "em_andamento",
	})
}

// executarLote roda o pipeline de um diretório e registra o desfecho na base
// e no instantâneo de status.
func (s *Server) executarLote(sessionID, diretorio, outputDir string) {
	progresso := func(processados, total int, arquivoAtual *string) {
		s.status.progresso(sessionID, processados, total, arquivoAtual)
		if err := s.db.AtualizarProgressoSessao(sessionID, processados, total); err != nil {
			Logger.Warn("falha ao atualizar progresso da sessão", "session_id", sessionID, "error", err)
		}
	}

	propostas, errosProc, err := s.processor.ProcessarDiretorio(diretorio, outputDir, progresso)
	if err != nil {
		Logger.Error("lote falhou", "session_id", sessionID, "error", err)
		s.status.finalizar(sessionID, database.SessaoFalhou, []string{err.Error()})
		if dbErr := s.db.FinalizarSessao(sessionID, database.SessaoFalhou); dbErr != nil {
			Logger.Error("falha ao finalizar sessão", "session_id", sessionID, "error", dbErr)
		}
		return
	}

	if err := s.db.SalvarPropostas(sessionID, propostas); err != nil {
		Logger.Error("falha ao persistir propostas", "session_id", sessionID, "error", err)
		s.status.finalizar(sessionID, database.SessaoFalhou, append(errosProc, err.Error()))
		if dbErr := s.db.FinalizarSessao(sessionID, database.SessaoFalhou); dbErr != nil {
			Logger.Error("falha ao finalizar sessão", "session_id", sessionID, "error", dbErr)
		}
		return
	}

	s.status.finalizar(sessionID, database.SessaoConcluida, errosProc)
	if err := s.db.FinalizarSessao(sessionID, database.SessaoConcluida); err != nil {
		Logger.Error("falha ao finalizar sessão", "session_id", sessionID, "error", err)
	}

	Logger.Info("lote concluído",
		"session_id", sessionID,
		"propostas", len(propostas),
		"documentos_com_erro", len(errosProc),
	)
}

// handleStatusSessao consulta o andamento de uma sessão
// @Summary Consultar o status de uma sessão
// @Description Devolve o instantâneo de progresso de um lote em andamento ou concluído
// @Tags licitacoes
// @Produce json
// @Param session_id path string true "Identificador da sessão"
// @Success 200 {object} StatusProcessamento "Instantâneo da sessão"
// @Failure 404 {object} ErrorResponse "Sessão não encontrada"
// @Router /licitacoes/status/{session_id} [get]
func (s *Server) handleStatusSessao(c *gin.Context) {
	sessionID := c.Param("session_id")

	if st := s.status.obter(sessionID); st != nil {
		c.JSON(http.StatusOK, st)
		return
	}

	// O instantâneo em memória some em reinícios; a base do serviço ainda
	// conhece a sessão.
	sessao, err := s.db.ObterSessao(sessionID)
	if err != nil {
		if errors.Is(err, database.ErrSessaoNaoEncontrada) {
			sendJSONError(c, http.StatusNotFound, "sessão não encontrada")
			return
		}
		s.handleAppError(c, err, "falha ao consultar a sessão")
		return
	}

	c.JSON(http.StatusOK, StatusProcessamento{
		SessionID:    sessao.ID,
		Status:       sessao.Status,
		Total:        sessao.TotalArquivos,
		Processados:  sessao.Processados,
		AtualizadoEm: sessao.CriadoEm,
	})
}

// handleListarPropostas devolve as propostas persistidas de uma sessão
// @Summary Listar as propostas de uma sessão
// @Tags licitacoes
// @Produce json
// @Param session_id path string true "Identificador da sessão"
// @Success 200 {object} PropostasResponse "Propostas da sessão"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /licitacoes/propostas/{session_id} [get]
func (s *Server) handleListarPropostas(c *gin.Context) {
	propostas, err := s.db.ListarPropostas(c.Param("session_id"))
	if err != nil {
		s.handleAppError(c, err, "falha ao listar propostas")
		return
	}

	c.JSON(http.StatusOK, PropostasResponse{
		Total:     len(propostas),
		Propostas: propostas,
	})
}

// handleSalvarConsolidado grava o JSON consolidado de uma sessão
// @Summary Gravar o JSON consolidado
// @Description Agrupa as propostas da sessão por licitação e grava um arquivo por licitação mais o resumo geral
// @Tags consolidado
// @Accept json
// @Produce json
// @Param request body SalvarConsolidadoRequest true "Sessão e diretório de saída"
// @Success 200 {object} consolidation.ResumoGeral "Resumo da gravação"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 404 {object} ErrorResponse "Sessão sem propostas"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /consolidado/salvar [post]
func (s *Server) handleSalvarConsolidado(c *gin.Context) {
	var req SalvarConsolidadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: session_id e output_dir são obrigatórios")
		return
	}

	propostas, err := s.db.ListarPropostas(req.SessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar propostas")
		return
	}
	if len(propostas) == 0 {
		sendJSONError(c, http.StatusNotFound, "nenhuma proposta encontrada para a sessão")
		return
	}

	resumo, err := consolidation.SalvarJSONConsolidado(propostas, req.OutputDir)
	if err != nil {
		s.handleAppError(c, err, "falha ao gravar o consolidado")
		return
	}

	c.JSON(http.StatusOK, resumo)
}

// handleExportarConsolidado exporta as propostas de uma sessão em CSV ou XLSX
// @Summary Exportar as propostas em formato tabular
// @Tags consolidado
// @Accept json
// @Produce json
// @Param request body ExportarConsolidadoRequest true "Sessão, formato (csv ou excel) e caminho do arquivo"
// @Success 200 {object} map[string]any "Caminho do arquivo gerado"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 404 {object} ErrorResponse "Sessão sem propostas"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /consolidado/exportar [post]
func (s *Server) handleExportarConsolidado(c *gin.Context) {
	var req ExportarConsolidadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: session_id, formato e caminho_arquivo são obrigatórios")
		return
	}

	propostas, err := s.db.ListarPropostas(req.SessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar propostas")
		return
	}
	if len(propostas) == 0 {
		sendJSONError(c, http.StatusNotFound, "nenhuma proposta encontrada para a sessão")
		return
	}

	if err := consolidation.Exportar(propostas, consolidation.FormatoExportacao(req.Formato), req.CaminhoArquivo); err != nil {
		s.handleAppError(c, apperrors.NewValidationError(err.Error(), err), "falha ao exportar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"arquivo": req.CaminhoArquivo,
		"formato": req.Formato,
		"total":   len(propostas),
	})
}

// handleProcessarSicaf processa um diretório de certificados SICAF
// @Summary Processar certificados SICAF
// @Description Extrai os registros de fornecedor dos certificados, persiste a sessão e opcionalmente grava sicaf_dados.json
// @Tags sicaf
// @Accept json
// @Produce json
// @Param request body ProcessarSicafRequest true "Diretório dos certificados e diretório de saída opcional"
// @Success 200 {object} sicaf.ResultadoProcessamento "Resultado do processamento"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /sicaf/processar [post]
func (s *Server) handleProcessarSicaf(c *gin.Context) {
	var req ProcessarSicafRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: diretorio é obrigatório")
		return
	}

	resultado, err := s.sicafProcessor.ProcessarDiretorio(req.Diretorio)
	if err != nil {
		s.handleAppError(c, err, "falha ao processar certificados SICAF")
		return
	}

	if resultado.SessionID != nil {
		sessionID := *resultado.SessionID
		if err := s.db.CriarSessao(sessionID, database.SessaoSicaf, req.Diretorio, resultado.ProcessedCount); err != nil {
			s.handleAppError(c, err, "falha ao criar a sessão SICAF")
			return
		}
		if err := s.db.SalvarRegistrosSicaf(sessionID, resultado.DadosSicaf); err != nil {
			s.handleAppError(c, err, "falha ao persistir registros SICAF")
			return
		}
		if err := s.db.FinalizarSessao(sessionID, database.SessaoConcluida); err != nil {
			Logger.Warn("falha ao finalizar sessão SICAF", "session_id", sessionID, "error", err)
		}
	}

	if req.OutputDir != "" && len(resultado.DadosSicaf) > 0 {
		if err := sicaf.SalvarJSON(resultado.DadosSicaf, req.OutputDir); err != nil {
			s.handleAppError(c, err, "falha ao gravar sicaf_dados.json")
			return
		}
	}

	c.JSON(http.StatusOK, resultado)
}

// matcherDaSessao carrega os registros de uma sessão SICAF em um Matcher.
func (s *Server) matcherDaSessao(sessionID string) (*sicaf.Matcher, error) {
	registros, err := s.db.ListarRegistrosSicaf(sessionID)
	if err != nil {
		return nil, err
	}
	return sicaf.NovoMatcher(registros), nil
}

// handleVerificarCNPJ verifica a presença de um CNPJ no SICAF
// @Summary Verificar um CNPJ no SICAF
// @Tags sicaf
// @Produce json
// @Param cnpj path string true "CNPJ, com ou sem pontuação"
// @Param session_id query string true "Sessão SICAF a consultar"
// @Success 200 {object} VerificarCNPJResponse "Resultado da consulta"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /sicaf/verificar/{cnpj} [get]
func (s *Server) handleVerificarCNPJ(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sendJSONError(c, http.StatusBadRequest, "parâmetro session_id é obrigatório")
		return
	}

	matcher, err := s.matcherDaSessao(sessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar registros SICAF")
		return
	}

	cnpj := c.Param("cnpj")
	c.JSON(http.StatusOK, VerificarCNPJResponse{
		CNPJ:       cnpj,
		Encontrado: matcher.VerificarCNPJ(cnpj),
	})
}

// handleDadosCNPJ devolve o registro SICAF de um CNPJ
// @Summary Consultar os dados SICAF de um CNPJ
// @Tags sicaf
// @Produce json
// @Param cnpj path string true "CNPJ, com ou sem pontuação"
// @Param session_id query string true "Sessão SICAF a consultar"
// @Success 200 {object} extractors.DadosSicaf "Registro do fornecedor"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 404 {object} ErrorResponse "CNPJ não encontrado"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /sicaf/dados/{cnpj} [get]
func (s *Server) handleDadosCNPJ(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sendJSONError(c, http.StatusBadRequest, "parâmetro session_id é obrigatório")
		return
	}

	matcher, err := s.matcherDaSessao(sessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar registros SICAF")
		return
	}

	dados := matcher.ObterDados(c.Param("cnpj"))
	if dados == nil {
		sendJSONError(c, http.StatusNotFound, "CNPJ não encontrado no SICAF")
		return
	}

	c.JSON(http.StatusOK, dados)
}

// handleCompararSicaf cruza as propostas de uma sessão com os registros SICAF
// @Summary Cruzar propostas com o SICAF
// @Description Gera o relatório de comparação entre as propostas adjudicadas e os registros SICAF, opcionalmente gravando relatorio_sicaf_comparacao.json
// @Tags sicaf
// @Accept json
// @Produce json
// @Param request body CompararSicafRequest true "Sessões a cruzar e diretório de saída opcional"
// @Success 200 {object} sicaf.RelatorioComparacao "Relatório de comparação"
// @Failure 400 {object} ErrorResponse "Requisição inválida"
// @Failure 404 {object} ErrorResponse "Sessão sem dados"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /sicaf/comparar [post]
func (s *Server) handleCompararSicaf(c *gin.Context) {
	var req CompararSicafRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido: sicaf_session_id e licitacao_session_id são obrigatórios")
		return
	}

	matcher, err := s.matcherDaSessao(req.SicafSessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar registros SICAF")
		return
	}

	propostas, err := s.db.ListarPropostas(req.LicitacaoSessionID)
	if err != nil {
		s.handleAppError(c, err, "falha ao carregar propostas")
		return
	}
	if len(propostas) == 0 {
		sendJSONError(c, http.StatusNotFound, "nenhuma proposta encontrada para a sessão")
		return
	}

	relatorio := matcher.Comparar(propostas)

	if req.OutputDir != "" {
		if err := sicaf.SalvarRelatorio(relatorio, req.OutputDir); err != nil {
			s.handleAppError(c, err, "falha ao gravar o relatório de comparação")
			return
		}
	}

	c.JSON(http.StatusOK, relatorio)
}

// handleGetConfig devolve a configuração em uso
// @Summary Consultar a configuração
// @Tags config
// @Produce json
// @Success 200 {object} config.Config "Configuração em uso"
// @Router /config [get]
func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg)
}

// handleSaveConfig valida e persiste uma nova configuração
// @Summary Persistir a configuração
// @Description Valida e grava a configuração na base do serviço; passa a valer no próximo início
// @Tags config
// @Accept json
// @Produce json
// @Param request body config.Config true "Nova configuração"
// @Success 200 {object} map[string]any "Configuração persistida"
// @Failure 400 {object} ErrorResponse "Configuração inválida"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /config [put]
func (s *Server) handleSaveConfig(c *gin.Context) {
	var cfg config.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		sendJSONError(c, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := cfg.Validate(); err != nil {
		sendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.SaveConfig(&cfg, s.db); err != nil {
		s.handleAppError(c, err, "falha ao persistir a configuração")
		return
	}

	version, err := s.db.GetAppConfigVersion()
	if err != nil {
		version = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": version,
	})
}
