package sicaf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"licitaserver/extractors"
	"licitaserver/processing"
)

const (
	StatusEncontrado    = "SICAF Encontrado"
	StatusNaoEncontrado = "SICAF Não Encontrado"
)

// Matcher responde consultas de CNPJ sobre um conjunto de registros SICAF já
// carregado. A comparação sempre acontece sobre a forma só-dígitos do CNPJ,
// então "12.345.678/0001-90" e "12345678000190" se referem ao mesmo
// fornecedor.
type Matcher struct {
	registros []extractors.DadosSicaf
}

// NovoMatcher retém os registros na ordem de carga; consultas com múltiplos
// registros para o mesmo CNPJ devolvem o primeiro.
func NovoMatcher(registros []extractors.DadosSicaf) *Matcher {
	return &Matcher{registros: registros}
}

// VerificarCNPJ informa se algum registro carregado corresponde ao CNPJ.
func (m *Matcher) VerificarCNPJ(cnpj string) bool {
	return m.ObterDados(cnpj) != nil
}

// ObterDados retorna o primeiro registro (na ordem de carga) cujo CNPJ
// normalizado coincide, ou nil quando nenhum coincide.
func (m *Matcher) ObterDados(cnpj string) *extractors.DadosSicaf {
	alvo := extractors.NormalizarCNPJ(cnpj)
	for i := range m.registros {
		if extractors.NormalizarCNPJ(m.registros[i].CNPJ) == alvo {
			return &m.registros[i]
		}
	}
	return nil
}

// propostaResumo é a projeção da proposta embutida em cada entrada do
// relatório de comparação.
type propostaResumo struct {
	Item            string `json:"item"`
	ValorAdjudicado string `json:"valor_adjudicado"`
	Uasg            string `json:"uasg"`
	Pregao          string `json:"pregao"`
}

// EntradaComparacao é uma proposta adjudicada anotada com o resultado da
// consulta ao SICAF.
type EntradaComparacao struct {
	CNPJ        string                 `json:"cnpj"`
	Fornecedor  string                 `json:"fornecedor"`
	StatusSicaf string                 `json:"status_sicaf"`
	DadosSicaf  *extractors.DadosSicaf `json:"dados_sicaf"`
	Proposta    propostaResumo         `json:"proposta"`
}

// RelatorioComparacao agrega as entradas e os contadores do cruzamento.
type RelatorioComparacao struct {
	DataGeracao         string              `json:"data_geracao"`
	TotalPropostas      int                 `json:"total_propostas"`
	SicafEncontrados    int                 `json:"sicaf_encontrados"`
	SicafNaoEncontrados int                 `json:"sicaf_nao_encontrados"`
	Relatorio           []EntradaComparacao `json:"relatorio"`
}

// Comparar cruza cada proposta com os registros carregados, preservando a
// ordem das propostas. Toda proposta gera exatamente uma entrada.
func (m *Matcher) Comparar(propostas []processing.PropostaConsolidada) *RelatorioComparacao {
	relatorio := &RelatorioComparacao{
		DataGeracao:    agora().Format(layoutDataGeracao),
		TotalPropostas: len(propostas),
		Relatorio:      make([]EntradaComparacao, 0, len(propostas)),
	}

	for _, p := range propostas {
		dados := m.ObterDados(p.CNPJ)
		status := StatusNaoEncontrado
		if dados != nil {
			status = StatusEncontrado
			relatorio.SicafEncontrados++
		} else {
			relatorio.SicafNaoEncontrados++
		}

		relatorio.Relatorio = append(relatorio.Relatorio, EntradaComparacao{
			CNPJ:        p.CNPJ,
			Fornecedor:  p.Fornecedor,
			StatusSicaf: status,
			DadosSicaf:  dados,
			Proposta: propostaResumo{
				Item:            p.Item,
				ValorAdjudicado: p.ValorAdjudicado,
				Uasg:            p.Uasg,
				Pregao:          p.Pregao,
			},
		})
	}

	return relatorio
}

// SalvarRelatorio grava o relatório em relatorio_sicaf_comparacao.json
// dentro de outputDir.
func SalvarRelatorio(relatorio *RelatorioComparacao, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	conteudo, err := json.MarshalIndent(relatorio, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar relatório de comparação: %w", err)
	}

	caminho := filepath.Join(outputDir, "relatorio_sicaf_comparacao.json")
	if err := os.WriteFile(caminho, conteudo, 0o644); err != nil {
		return fmt.Errorf("erro ao salvar relatório de comparação: %w", err)
	}

	return nil
}
