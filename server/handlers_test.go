package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"licitaserver/database"
	"licitaserver/internal/config"
)

const ataGrupoTeste = `ATA DE REALIZAÇÃO DO PREGÃO ELETRÔNICO
UASG 120001
PREGÃO 15/2024
Processo nº 23069001234
Item 1 do Grupo G2 - Cabo de rede categoria 6
Quantidade: 100
Valor estimado: R$ 1.200,00
Situação: Adjudicado e Homologado
Adjudicado e Homologado por CPF ***.123.***-*4 - MARIA SOUZA para ACME REDES LTDA, CNPJ 12.345.678/0001-90, melhor lance: R$ 1.000,00
`

const certificadoTeste = `Relatório de Credenciamento
CNPJ: 12.345.678/0001-90
Razão Social: ACME REDES LTDA
Nome Fantasia: ACME
Situação do Fornecedor: HABILITADO
Data de Vencimento do Cadastro: 31/12/2024
Dados do Nível 1 - Credenciamento
Dados para Contato
CEP: 01234-567
Endereço: RUA TESTE, 123 - CENTRO
Município / UF: SÃO PAULO / SP
Telefone: (11) 1234-5678
E-mail: contato@acme.com.br
Dados do Responsável Legal
CPF: 123.456.789-00
Nome: JOÃO DA SILVA
Dados do Responsável pelo Cadastro
`

func servidorDeTeste(t *testing.T) *Server {
	t.Helper()

	db, err := database.NewServiceDB(":memory:")
	if err != nil {
		t.Fatalf("NewServiceDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:                "9999",
		ServiceDatabasePath: ":memory:",
		OutputDir:           t.TempDir(),
		SicafDir:            t.TempDir(),
		MaxOpenConns:        1,
		MaxIdleConns:        1,
		ConnMaxLifetime:     5 * time.Minute,
		LogLevel:            "ERROR",
		RateLimitRPS:        1000,
		RateLimitBurst:      1000,
	}

	return NewServer(cfg, db)
}

func requisicaoJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodificar(t *testing.T, rec *httptest.ResponseRecorder, destino any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), destino); err != nil {
		t.Fatalf("decode resposta: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	decodificar(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestProcessarArquivo(t *testing.T) {
	s := servidorDeTeste(t)

	dir := t.TempDir()
	ata := filepath.Join(dir, "ata_pregao_15.txt")
	if err := os.WriteFile(ata, []byte(ataGrupoTeste), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-arquivo", ProcessarArquivoRequest{
		CaminhoArquivo: ata,
		OutputDir:      t.TempDir(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Total     int `json:"total"`
		Propostas []struct {
			Item string `json:"item"`
			CNPJ string `json:"cnpj"`
		} `json:"propostas"`
	}
	decodificar(t, rec, &resp)
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Propostas[0].CNPJ != "12.345.678/0001-90" {
		t.Errorf("cnpj = %q", resp.Propostas[0].CNPJ)
	}
}

func TestProcessarArquivoCorpoInvalido(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-arquivo", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessarArquivoInexistente(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-arquivo", ProcessarArquivoRequest{
		CaminhoArquivo: filepath.Join(t.TempDir(), "nao_existe.txt"),
		OutputDir:      t.TempDir(),
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body = %s", rec.Code, rec.Body.String())
	}
}

// TestProcessarArquivoExtensaoNaoSuportada: extensão que nenhum extrator
// reconhece é erro de entrada, recusado antes de qualquer extração.
func TestProcessarArquivoExtensaoNaoSuportada(t *testing.T) {
	s := servidorDeTeste(t)

	documento := filepath.Join(t.TempDir(), "ata_digitalizada.pdf")
	if err := os.WriteFile(documento, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-arquivo", ProcessarArquivoRequest{
		CaminhoArquivo: documento,
		OutputDir:      t.TempDir(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

// aguardarSessao consulta o status até a sessão sair de em_andamento.
func aguardarSessao(t *testing.T, s *Server, sessionID string) StatusProcessamento {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := requisicaoJSON(t, s, http.MethodGet, "/api/licitacoes/status/"+sessionID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint = %d, body = %s", rec.Code, rec.Body.String())
		}

		var st StatusProcessamento
		decodificar(t, rec, &st)
		if st.Status != "em_andamento" {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sessão não concluiu dentro do prazo")
	return StatusProcessamento{}
}

func TestProcessarDiretorioFluxoCompleto(t *testing.T) {
	s := servidorDeTeste(t)

	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		ata := filepath.Join(dir, fmt.Sprintf("ata_%d.txt", i))
		if err := os.WriteFile(ata, []byte(ataGrupoTeste), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	outputDir := t.TempDir()

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-diretorio", ProcessarDiretorioRequest{
		Diretorio: dir,
		OutputDir: outputDir,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var disparo ProcessarDiretorioResponse
	decodificar(t, rec, &disparo)
	if disparo.SessionID == "" {
		t.Fatal("session_id vazio")
	}

	st := aguardarSessao(t, s, disparo.SessionID)
	if st.Status != database.SessaoConcluida {
		t.Fatalf("Status = %q, want %q (erros: %v)", st.Status, database.SessaoConcluida, st.Erros)
	}
	if st.Processados != 2 || st.Total != 2 {
		t.Errorf("progresso = %d/%d, want 2/2", st.Processados, st.Total)
	}

	rec = requisicaoJSON(t, s, http.MethodGet, "/api/licitacoes/propostas/"+disparo.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("propostas endpoint = %d", rec.Code)
	}
	var propostas struct {
		Total int `json:"total"`
	}
	decodificar(t, rec, &propostas)
	if propostas.Total != 2 {
		t.Errorf("total de propostas = %d, want 2", propostas.Total)
	}

	// Um reinício descarta o instantâneo em memória; a base do serviço ainda
	// responde pelo status, inclusive pelo total fixado do lote.
	s.status.mu.Lock()
	delete(s.status.sessions, disparo.SessionID)
	s.status.mu.Unlock()

	// O lote encerra o instantâneo antes de gravar o desfecho na base, então
	// a consulta persistida também espera a conclusão.
	deadline := time.Now().Add(5 * time.Second)
	var persistido StatusProcessamento
	for {
		rec = requisicaoJSON(t, s, http.MethodGet, "/api/licitacoes/status/"+disparo.SessionID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status endpoint pós-reinício = %d, body = %s", rec.Code, rec.Body.String())
		}
		decodificar(t, rec, &persistido)
		if persistido.Status != database.SessaoEmAndamento || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if persistido.Status != database.SessaoConcluida {
		t.Errorf("Status persistido = %q, want %q", persistido.Status, database.SessaoConcluida)
	}
	if persistido.Processados != 2 || persistido.Total != 2 {
		t.Errorf("progresso persistido = %d/%d, want 2/2", persistido.Processados, persistido.Total)
	}

	// Consolidado sobre a mesma sessão.
	consolidadoDir := t.TempDir()
	rec = requisicaoJSON(t, s, http.MethodPost, "/api/consolidado/salvar", SalvarConsolidadoRequest{
		SessionID: disparo.SessionID,
		OutputDir: consolidadoDir,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("consolidado/salvar = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(consolidadoDir, "resumo_geral.json")); err != nil {
		t.Errorf("resumo_geral.json não gravado: %v", err)
	}

	// Exportação CSV da mesma sessão.
	csvPath := filepath.Join(t.TempDir(), "propostas.csv")
	rec = requisicaoJSON(t, s, http.MethodPost, "/api/consolidado/exportar", ExportarConsolidadoRequest{
		SessionID:      disparo.SessionID,
		Formato:        "csv",
		CaminhoArquivo: csvPath,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("consolidado/exportar = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("CSV não gravado: %v", err)
	}
}

func TestStatusSessaoInexistente(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodGet, "/api/licitacoes/status/nao-existe", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSicafFluxoCompleto(t *testing.T) {
	s := servidorDeTeste(t)

	sicafDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sicafDir, "cert.txt"), []byte(certificadoTeste), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := requisicaoJSON(t, s, http.MethodPost, "/api/sicaf/processar", ProcessarSicafRequest{
		Diretorio: sicafDir,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sicaf/processar = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resultado struct {
		Success        bool    `json:"success"`
		ProcessedCount int     `json:"processed_count"`
		SessionID      *string `json:"session_id"`
	}
	decodificar(t, rec, &resultado)
	if !resultado.Success || resultado.ProcessedCount != 1 {
		t.Fatalf("resultado = %+v", resultado)
	}
	if resultado.SessionID == nil {
		t.Fatal("session_id = nil")
	}
	sicafSession := *resultado.SessionID

	// Consulta cobre a indiferença à pontuação do CNPJ.
	rec = requisicaoJSON(t, s, http.MethodGet, "/api/sicaf/verificar/12345678000190?session_id="+sicafSession, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sicaf/verificar = %d", rec.Code)
	}
	var verif VerificarCNPJResponse
	decodificar(t, rec, &verif)
	if !verif.Encontrado {
		t.Error("Encontrado = false, want true")
	}

	rec = requisicaoJSON(t, s, http.MethodGet, "/api/sicaf/dados/99999999000100?session_id="+sicafSession, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("sicaf/dados cnpj desconhecido = %d, want 404", rec.Code)
	}

	// Sessão de licitações para o cruzamento.
	atasDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(atasDir, "ata.txt"), []byte(ataGrupoTeste), 0o644); err != nil {
		t.Fatal(err)
	}
	rec = requisicaoJSON(t, s, http.MethodPost, "/api/licitacoes/processar-diretorio", ProcessarDiretorioRequest{
		Diretorio: atasDir,
		OutputDir: t.TempDir(),
	})
	var disparo ProcessarDiretorioResponse
	decodificar(t, rec, &disparo)
	aguardarSessao(t, s, disparo.SessionID)

	relatorioDir := t.TempDir()
	rec = requisicaoJSON(t, s, http.MethodPost, "/api/sicaf/comparar", CompararSicafRequest{
		SicafSessionID:     sicafSession,
		LicitacaoSessionID: disparo.SessionID,
		OutputDir:          relatorioDir,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sicaf/comparar = %d, body = %s", rec.Code, rec.Body.String())
	}

	var relatorio struct {
		TotalPropostas   int `json:"total_propostas"`
		SicafEncontrados int `json:"sicaf_encontrados"`
	}
	decodificar(t, rec, &relatorio)
	if relatorio.TotalPropostas != 1 || relatorio.SicafEncontrados != 1 {
		t.Errorf("relatório = %+v, want 1/1", relatorio)
	}
	if _, err := os.Stat(filepath.Join(relatorioDir, "relatorio_sicaf_comparacao.json")); err != nil {
		t.Errorf("relatório não gravado: %v", err)
	}
}

func TestConfigGetESave(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("config GET = %d", rec.Code)
	}

	var cfg config.Config
	decodificar(t, rec, &cfg)
	if cfg.Port != "9999" {
		t.Errorf("Port = %q", cfg.Port)
	}

	cfg.OutputDir = "/dados/nova_saida"
	rec = requisicaoJSON(t, s, http.MethodPut, "/api/config", cfg)
	if rec.Code != http.StatusOK {
		t.Fatalf("config PUT = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Version int  `json:"version"`
	}
	decodificar(t, rec, &resp)
	if !resp.Success || resp.Version != 1 {
		t.Errorf("resposta = %+v, want success/version 1", resp)
	}
}

func TestConfigSaveInvalida(t *testing.T) {
	s := servidorDeTeste(t)

	rec := requisicaoJSON(t, s, http.MethodPut, "/api/config", map[string]any{
		"port": "70000",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("config PUT inválido = %d, want 400", rec.Code)
	}
}
