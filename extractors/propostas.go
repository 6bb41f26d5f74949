package extractors

import (
	"fmt"
	"regexp"
	"strings"
)

// Formatos de layout reconhecidos nas atas de pregão.
const (
	FormatoIndividual = "individual"
	FormatoGrupo      = "grupo"
)

// PropostaAdjudicada é uma adjudicação extraída de uma ata de pregão: o item,
// quem venceu, por qual valor. Campos não recuperáveis carregam o sentinela
// NaoDisponivel; Grupo é nil no formato individual.
type PropostaAdjudicada struct {
	Item            string  `json:"item"`
	Grupo           *string `json:"grupo"`
	Descricao       string  `json:"descricao"`
	Quantidade      string  `json:"quantidade"`
	ValorEstimado   string  `json:"valor_estimado"`
	ValorAdjudicado string  `json:"valor_adjudicado"`
	Fornecedor      string  `json:"fornecedor"`
	CNPJ            string  `json:"cnpj"`
	MelhorLance     string  `json:"melhor_lance"`
	Responsavel     string  `json:"responsavel"`
	CPFResponsavel  string  `json:"cpf_responsavel"`
	MarcaFabricante string  `json:"marca_fabricante"`
	ModeloVersao    string  `json:"modelo_versao"`
	TipoFormato     string  `json:"tipo_formato"`
}

// Padrão do formato de grupo: uma única captura cobre o bloco inteiro do
// item, do cabeçalho "Item N do Grupo GN" até o melhor lance. A situação
// literal "Adjudicado e Homologado" entre o bloco de quantidade/valor e o
// bloco de adjudicação é obrigatória.
var reGrupo = regexp.MustCompile(
	`Item\s+(?P<item>\d+)\s+do\s+Grupo\s+G(?P<grupo>\d+)\s*-\s*(?P<descricao>[^\n]+)` +
		`[\s\S]*?Quantidade:\s*(?P<quantidade>\d+)` +
		`[\s\S]*?Valor\s+estimado:\s*R\$\s*(?P<valor>[\d,\.]+)` +
		`[\s\S]*?Situação:\s*(?P<situacao>Adjudicado e Homologado)` +
		`[\s\S]*?Adjudicado e Homologado por CPF[^-]+-\s*(?P<responsavel>[^,]+?)\s*para\s+(?P<fornecedor>[^,]+),\s*CNPJ\s*(?P<cnpj>[\d\.\-/]+),\s*melhor\s+lance:\s*R\$\s*(?P<melhor_lance>[\d,\.]+)`)

// Padrões do formato individual, em ordem fixa de prioridade: as duas grafias
// da situação ("Adjucado" aparece em parte das atas, aparentemente um erro de
// digitação do próprio sistema emissor) cruzadas com a presença ou não do
// valor negociado. Ambas as grafias são preservadas deliberadamente.
var padroesAdjudicacao = []struct {
	re               *regexp.Regexp
	temValorNegociado bool
}{
	{regexp.MustCompile(`Adjucado e Homologado por CPF\s*(?P<cpf>[\d\.\-\*]+)\s*-\s*(?P<responsavel>[^,]+),?\s*para\s+(?P<fornecedor>[^,]+),\s*CNPJ\s*(?P<cnpj>[\d\.\-/]+),\s*melhor\s+lance:\s*R\$\s*(?P<melhor_lance>[\d,\.]+).*?valor\s+negociado:\s*R\$\s*(?P<valor_negociado>[\d,\.]+)`), true},
	{regexp.MustCompile(`Adjudicado e Homologado por CPF\s*(?P<cpf>[\d\.\-\*]+)\s*-\s*(?P<responsavel>[^,]+),?\s*para\s+(?P<fornecedor>[^,]+),\s*CNPJ\s*(?P<cnpj>[\d\.\-/]+),\s*melhor\s+lance:\s*R\$\s*(?P<melhor_lance>[\d,\.]+).*?valor\s+negociado:\s*R\$\s*(?P<valor_negociado>[\d,\.]+)`), true},
	{regexp.MustCompile(`Adjucado e Homologado por CPF\s*(?P<cpf>[\d\.\-\*]+)\s*-\s*(?P<responsavel>[^,]+),?\s*para\s+(?P<fornecedor>[^,]+),\s*CNPJ\s*(?P<cnpj>[\d\.\-/]+),\s*melhor\s+lance:\s*R\$\s*(?P<melhor_lance>[\d,\.]+)`), false},
	{regexp.MustCompile(`Adjudicado e Homologado por CPF\s*(?P<cpf>[\d\.\-\*]+)\s*-\s*(?P<responsavel>[^,]+),?\s*para\s+(?P<fornecedor>[^,]+),\s*CNPJ\s*(?P<cnpj>[\d\.\-/]+),\s*melhor\s+lance:\s*R\$\s*(?P<melhor_lance>[\d,\.]+)`), false},
}

// Padrão do CPF parcialmente mascarado ("***.123.***-*0") embutido no campo
// livre do responsável.
var reCPFMascarado = regexp.MustCompile(`(\*{3}\.\d{3}\.\*{3}-\*\d)`)

// ExtrairPropostas reconhece propostas adjudicadas no texto de uma ata.
// Tenta primeiro o formato de grupo; somente se nenhuma proposta de grupo
// for encontrada aplica os padrões do formato individual. Texto sem nenhuma
// adjudicação (item cancelado, por exemplo) devolve uma fatia vazia.
func ExtrairPropostas(texto string) []PropostaAdjudicada {
	propostas := ExtrairPropostasGrupo(texto)
	if len(propostas) == 0 {
		propostas = ExtrairPropostasIndividuais(texto)
	}
	return propostas
}

// ExtrairPropostasGrupo extrai propostas no formato de grupo. Duplicatas pela
// chave (item, cnpj) são suprimidas, a primeira ocorrência vence.
func ExtrairPropostasGrupo(texto string) []PropostaAdjudicada {
	var propostas []PropostaAdjudicada
	processados := make(map[string]bool)

	for _, m := range reGrupo.FindAllStringSubmatch(texto, -1) {
		item := strings.TrimSpace(grupoNomeado(reGrupo, m, "item"))
		cnpj := strings.TrimSpace(grupoNomeado(reGrupo, m, "cnpj"))
		chave := fmt.Sprintf("%s-%s", item, cnpj)

		if processados[chave] {
			continue
		}
		processados[chave] = true

		grupo := "G" + grupoNomeado(reGrupo, m, "grupo")
		melhorLance := strings.TrimSpace(grupoNomeado(reGrupo, m, "melhor_lance"))
		responsavel := strings.TrimSpace(grupoNomeado(reGrupo, m, "responsavel"))

		propostas = append(propostas, PropostaAdjudicada{
			Item:            item,
			Grupo:           &grupo,
			Descricao:       strings.TrimSpace(grupoNomeado(reGrupo, m, "descricao")),
			Quantidade:      strings.TrimSpace(grupoNomeado(reGrupo, m, "quantidade")),
			ValorEstimado:   strings.TrimSpace(grupoNomeado(reGrupo, m, "valor")),
			ValorAdjudicado: melhorLance,
			Fornecedor:      strings.TrimSpace(grupoNomeado(reGrupo, m, "fornecedor")),
			CNPJ:            cnpj,
			MelhorLance:     melhorLance,
			Responsavel:     responsavel,
			CPFResponsavel:  ExtrairCPFDoResponsavel(responsavel),
			MarcaFabricante: NaoDisponivel,
			ModeloVersao:    NaoDisponivel,
			TipoFormato:     FormatoGrupo,
		})
	}

	return propostas
}

// ExtrairPropostasIndividuais extrai propostas no formato individual. Os
// quatro padrões são aplicados na ordem de prioridade declarada; duplicatas
// por CNPJ são suprimidas entre padrões: o formato individual não tem
// conceito de grupo, então a primeira extração por fornecedor vence.
//
// Os campos ausentes da sentença de adjudicação (item, descrição, quantidade,
// valor estimado, marca, modelo) são recuperados por busca de proximidade
// ancorada no CNPJ. É uma junção heurística, não estrutural: nas atas reais
// esses campos ficam fisicamente adjacentes ao identificador a que pertencem.
func ExtrairPropostasIndividuais(texto string) []PropostaAdjudicada {
	var propostas []PropostaAdjudicada
	cnpjsProcessados := make(map[string]bool)

	for _, padrao := range padroesAdjudicacao {
		for _, m := range padrao.re.FindAllStringSubmatch(texto, -1) {
			cnpj := strings.TrimSpace(m[4])
			if cnpjsProcessados[cnpj] {
				continue
			}
			cnpjsProcessados[cnpj] = true

			melhorLance := strings.TrimSpace(m[5])
			valorAdjudicado := melhorLance
			if padrao.temValorNegociado {
				valorAdjudicado = strings.TrimSpace(m[6])
			}

			propostas = append(propostas, PropostaAdjudicada{
				Item:            extrairItemDoContexto(texto, cnpj),
				Grupo:           nil,
				Descricao:       extrairDescricaoDoContexto(texto, cnpj),
				Quantidade:      extrairQuantidadeDoContexto(texto, cnpj),
				ValorEstimado:   extrairValorEstimadoDoContexto(texto, cnpj),
				ValorAdjudicado: valorAdjudicado,
				Fornecedor:      strings.TrimSpace(m[3]),
				CNPJ:            cnpj,
				MelhorLance:     melhorLance,
				Responsavel:     strings.TrimSpace(m[2]),
				CPFResponsavel:  strings.TrimSpace(m[1]),
				MarcaFabricante: extrairMarcaFabricanteDoContexto(texto, cnpj),
				ModeloVersao:    extrairModeloVersaoDoContexto(texto, cnpj),
				TipoFormato:     FormatoIndividual,
			})
		}
	}

	return propostas
}

// ExtrairCPFDoResponsavel recupera o CPF mascarado embutido no campo livre do
// responsável pela homologação.
func ExtrairCPFDoResponsavel(responsavel string) string {
	if m := reCPFMascarado.FindStringSubmatch(responsavel); m != nil {
		return m[1]
	}
	return NaoDisponivel
}

func extrairItemDoContexto(texto, cnpj string) string {
	re := regexp.MustCompile(`Item\s+(\d+)[^#]*?` + regexp.QuoteMeta(cnpj))
	if m := re.FindStringSubmatch(texto); m != nil {
		return m[1]
	}
	return NaoDisponivel
}

func extrairDescricaoDoContexto(texto, cnpj string) string {
	re := regexp.MustCompile(`Item\s+\d+[^#]*?([^#]*?)` + regexp.QuoteMeta(cnpj))
	if m := re.FindStringSubmatch(texto); m != nil {
		primeira, _, _ := strings.Cut(m[1], "\n")
		if desc := strings.TrimSpace(primeira); desc != "" {
			return desc
		}
	}
	return NaoDisponivel
}

func extrairQuantidadeDoContexto(texto, cnpj string) string {
	padroes := []string{
		`Quantidade:\s*(\d+)[^#]*?` + regexp.QuoteMeta(cnpj),
		`Unidade\s+(\d+)[^#]*?` + regexp.QuoteMeta(cnpj),
	}
	for _, padrao := range padroes {
		if m := regexp.MustCompile(padrao).FindStringSubmatch(texto); m != nil {
			return m[1]
		}
	}
	return NaoDisponivel
}

func extrairValorEstimadoDoContexto(texto, cnpj string) string {
	padroes := []string{
		`Valor\s+estimado:\s*R\$\s*([\d,\.]+)[^#]*?` + regexp.QuoteMeta(cnpj),
		`R\$\s*([\d,\.]+)Quantidade:[^#]*?` + regexp.QuoteMeta(cnpj),
	}
	for _, padrao := range padroes {
		if m := regexp.MustCompile(padrao).FindStringSubmatch(texto); m != nil {
			return m[1]
		}
	}
	return NaoDisponivel
}

func extrairMarcaFabricanteDoContexto(texto, cnpj string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(cnpj) + `[\s\S]*?Proposta adjudicada[\s\S]*?Marca/Fabricante:\s*([^\n\r]+)`)
	if m := re.FindStringSubmatch(texto); m != nil {
		return strings.TrimSpace(m[1])
	}
	return NaoDisponivel
}

func extrairModeloVersaoDoContexto(texto, cnpj string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(cnpj) + `[\s\S]*?Proposta adjudicada[\s\S]*?Modelo/versão:\s*([^\n\r]+)`)
	if m := re.FindStringSubmatch(texto); m != nil {
		return strings.TrimSpace(m[1])
	}
	return NaoDisponivel
}

// grupoNomeado devolve a captura de um grupo nomeado de um match já obtido.
func grupoNomeado(re *regexp.Regexp, match []string, nome string) string {
	idx := re.SubexpIndex(nome)
	if idx < 0 || idx >= len(match) {
		return ""
	}
	return match[idx]
}
