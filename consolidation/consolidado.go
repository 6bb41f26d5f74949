// Package consolidation agrega as propostas coletadas de todos os documentos
// de um lote em licitações consolidadas, chaveadas por (uasg, pregão,
// processo), e serializa uma unidade JSON por licitação mais um resumo
// geral.
package consolidation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"licitaserver/extractors"
	"licitaserver/processing"
)

const layoutDataGeracao = "2006-01-02 15:04:05 UTC"

var agora = func() time.Time { return time.Now().UTC() }

// LicitacaoConsolidada é o agregado de uma licitação: contagem e soma
// derivadas das propostas membros. A sequência de membros preserva a ordem
// de primeira ocorrência.
type LicitacaoConsolidada struct {
	Uasg           string                           `json:"uasg"`
	Pregao         string                           `json:"pregao"`
	Processo       string                           `json:"processo"`
	TotalPropostas int                              `json:"total_propostas"`
	ValorTotal     float64                          `json:"valor_total"`
	Propostas      []processing.PropostaConsolidada `json:"propostas"`
}

// licitacaoJSON é a unidade serializada por licitação; os nomes dos campos
// fazem parte do contrato consumido pela camada de aplicação.
type licitacaoJSON struct {
	DataGeracao    string                           `json:"data_geracao"`
	Uasg           string                           `json:"uasg"`
	Pregao         string                           `json:"pregao"`
	Processo       string                           `json:"processo"`
	TotalPropostas int                              `json:"total_propostas"`
	ValorTotal     float64                          `json:"valor_total"`
	Propostas      []processing.PropostaConsolidada `json:"propostas"`
}

// ResumoGeral é a unidade global do lote.
type ResumoGeral struct {
	DataGeracao     string   `json:"data_geracao"`
	TotalLicitacoes int      `json:"total_licitacoes"`
	TotalPropostas  int      `json:"total_propostas"`
	ValorTotalGeral float64  `json:"valor_total_geral"`
	ArquivosGerados []string `json:"arquivos_gerados"`
}

// Chave identifica a licitação dona de uma proposta consolidada.
func Chave(p processing.PropostaConsolidada) string {
	return fmt.Sprintf("%s-%s-%s", p.Uasg, p.Pregao, p.Processo)
}

// Agrupar monta o agregado por licitação. O resultado independe da ordem de
// processamento dos documentos; dentro de cada grupo, a sequência de
// propostas preserva a ordem de chegada.
func Agrupar(propostas []processing.PropostaConsolidada) map[string]*LicitacaoConsolidada {
	licitacoes := make(map[string]*LicitacaoConsolidada)

	for _, p := range propostas {
		chave := Chave(p)
		lic, ok := licitacoes[chave]
		if !ok {
			lic = &LicitacaoConsolidada{
				Uasg:     p.Uasg,
				Pregao:   p.Pregao,
				Processo: p.Processo,
			}
			licitacoes[chave] = lic
		}

		lic.Propostas = append(lic.Propostas, p)
		lic.TotalPropostas++
		lic.ValorTotal += extractors.ConverterValorParaFloat(p.ValorAdjudicado)
	}

	return licitacoes
}

// SalvarJSONConsolidado grava um arquivo licitacao_<chave>.json por grupo e o
// resumo_geral.json do lote em outputDir. Falha de escrita ou de
// serialização aborta somente esta operação de salvamento; as propostas em
// memória permanecem válidas.
func SalvarJSONConsolidado(propostas []processing.PropostaConsolidada, outputDir string) (*ResumoGeral, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	licitacoes := Agrupar(propostas)
	dataGeracao := agora().Format(layoutDataGeracao)

	var valorTotalGeral float64
	for _, p := range propostas {
		valorTotalGeral += extractors.ConverterValorParaFloat(p.ValorAdjudicado)
	}

	chaves := make([]string, 0, len(licitacoes))
	for chave := range licitacoes {
		chaves = append(chaves, chave)
	}
	sort.Strings(chaves)

	arquivosGerados := make([]string, 0, len(chaves))
	for _, chave := range chaves {
		lic := licitacoes[chave]
		nomeArquivo := NomeArquivoLicitacao(chave)

		unidade := licitacaoJSON{
			DataGeracao:    dataGeracao,
			Uasg:           lic.Uasg,
			Pregao:         lic.Pregao,
			Processo:       lic.Processo,
			TotalPropostas: lic.TotalPropostas,
			ValorTotal:     lic.ValorTotal,
			Propostas:      lic.Propostas,
		}

		if err := gravarJSON(filepath.Join(outputDir, nomeArquivo), unidade); err != nil {
			return nil, fmt.Errorf("erro ao salvar %s: %w", nomeArquivo, err)
		}
		arquivosGerados = append(arquivosGerados, nomeArquivo)
	}

	resumo := &ResumoGeral{
		DataGeracao:     dataGeracao,
		TotalLicitacoes: len(licitacoes),
		TotalPropostas:  len(propostas),
		ValorTotalGeral: valorTotalGeral,
		ArquivosGerados: arquivosGerados,
	}

	if err := gravarJSON(filepath.Join(outputDir, "resumo_geral.json"), resumo); err != nil {
		return nil, fmt.Errorf("erro ao salvar resumo geral: %w", err)
	}

	return resumo, nil
}

// CarregarJSONConsolidado lê de volta as propostas de um arquivo
// licitacao_*.json gravado anteriormente.
func CarregarJSONConsolidado(caminho string) ([]processing.PropostaConsolidada, error) {
	conteudo, err := os.ReadFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo consolidado: %w", err)
	}

	var unidade licitacaoJSON
	if err := json.Unmarshal(conteudo, &unidade); err != nil {
		return nil, fmt.Errorf("erro ao parsear arquivo consolidado: %w", err)
	}

	return unidade.Propostas, nil
}

// NomeArquivoLicitacao sanitiza a chave do grupo para uso em nome de arquivo.
func NomeArquivoLicitacao(chave string) string {
	chave = strings.ReplaceAll(chave, "/", "_")
	chave = strings.ReplaceAll(chave, " ", "_")
	return fmt.Sprintf("licitacao_%s.json", chave)
}

func gravarJSON(caminho string, dados any) error {
	conteudo, err := json.MarshalIndent(dados, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar JSON: %w", err)
	}
	if err := os.WriteFile(caminho, conteudo, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar JSON: %w", err)
	}
	return nil
}
