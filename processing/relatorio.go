// Package processing orquestra o pipeline por documento: texto da ata →
// extração de propostas → relatório da licitação → Markdown em disco →
// propostas consolidadas para agregação entre documentos.
package processing

import (
	"licitaserver/extractors"
)

// RelatorioLicitacao reúne os metadados da licitação e as propostas
// extraídas de um único documento. A ordem das propostas é a ordem de
// extração, não necessariamente a ordem física do documento.
type RelatorioLicitacao struct {
	Uasg            string                          `json:"uasg"`
	Pregao          string                          `json:"pregao"`
	Processo        string                          `json:"processo"`
	DataHomologacao string                          `json:"data_homologacao"`
	Responsavel     string                          `json:"responsavel"`
	ValorTotal      float64                         `json:"valor_total"`
	Propostas       []extractors.PropostaAdjudicada `json:"propostas"`
}

// PropostaConsolidada é a unidade armazenada entre documentos: a proposta
// adjudicada mais a tripla (uasg, pregão, processo) da licitação dona.
type PropostaConsolidada struct {
	Uasg            string  `json:"uasg"`
	Pregao          string  `json:"pregao"`
	Processo        string  `json:"processo"`
	Item            string  `json:"item"`
	Grupo           *string `json:"grupo"`
	Quantidade      string  `json:"quantidade"`
	Descricao       string  `json:"descricao"`
	ValorEstimado   string  `json:"valor_estimado"`
	ValorAdjudicado string  `json:"valor_adjudicado"`
	Fornecedor      string  `json:"fornecedor"`
	CNPJ            string  `json:"cnpj"`
	MarcaFabricante string  `json:"marca_fabricante"`
	ModeloVersao    string  `json:"modelo_versao"`
	Responsavel     string  `json:"responsavel"`
	MelhorLance     string  `json:"melhor_lance"`
	TipoFormato     string  `json:"tipo_formato"`
}

// MontarRelatorio extrai os metadados da licitação, associa as propostas e
// calcula o valor total. Metadado não encontrado vira o sentinela "N/A", o
// relatório nunca falha por causa disso.
func MontarRelatorio(texto string, propostas []extractors.PropostaAdjudicada) *RelatorioLicitacao {
	relatorio := &RelatorioLicitacao{
		Uasg:            extractors.ExtrairUasg(texto),
		Pregao:          extractors.ExtrairPregao(texto),
		Processo:        extractors.ExtrairProcesso(texto),
		DataHomologacao: extractors.ExtrairDataHomologacao(texto),
		Responsavel:     extractors.ExtrairResponsavel(texto),
		Propostas:       propostas,
	}

	for _, p := range propostas {
		relatorio.ValorTotal += extractors.ConverterValorParaFloat(p.ValorAdjudicado)
	}

	return relatorio
}

// Consolidar anexa a tripla da licitação a cada proposta do relatório.
func (r *RelatorioLicitacao) Consolidar() []PropostaConsolidada {
	consolidadas := make([]PropostaConsolidada, 0, len(r.Propostas))
	for _, p := range r.Propostas {
		consolidadas = append(consolidadas, PropostaConsolidada{
			Uasg:            r.Uasg,
			Pregao:          r.Pregao,
			Processo:        r.Processo,
			Item:            p.Item,
			Grupo:           p.Grupo,
			Quantidade:      p.Quantidade,
			Descricao:       p.Descricao,
			ValorEstimado:   p.ValorEstimado,
			ValorAdjudicado: p.ValorAdjudicado,
			Fornecedor:      p.Fornecedor,
			CNPJ:            p.CNPJ,
			MarcaFabricante: p.MarcaFabricante,
			ModeloVersao:    p.ModeloVersao,
			Responsavel:     p.Responsavel,
			MelhorLance:     p.MelhorLance,
			TipoFormato:     p.TipoFormato,
		})
	}
	return consolidadas
}
