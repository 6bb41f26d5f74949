package processing

import (
	"fmt"
	"strings"
	"time"

	"licitaserver/extractors"
)

const layoutDataGeracao = "2006-01-02 15:04:05 UTC"

// agora é substituível em teste para fixar o timestamp do front-matter.
var agora = func() time.Time { return time.Now().UTC() }

// GerarMarkdown renderiza o relatório da licitação em um documento Markdown:
// front-matter, título, lista de metadados, tabela de propostas (o conjunto
// de colunas muda se qualquer proposta tiver grupo), seção de detalhes por
// proposta e resumo estatístico.
func GerarMarkdown(relatorio *RelatorioLicitacao) string {
	var md strings.Builder

	// Cabeçalho
	md.WriteString("---\n")
	md.WriteString(fmt.Sprintf("gerado_em: %s\n", agora().Format(layoutDataGeracao)))
	md.WriteString("ferramenta: Conversor de Atas de Licitação\n")
	md.WriteString("---\n\n")

	md.WriteString("# RELATÓRIO DE LICITAÇÃO - PROPOSTAS ADJUDICADAS\n\n")

	md.WriteString("## Informações Gerais\n\n")
	md.WriteString(fmt.Sprintf("- **UASG**: %s\n", relatorio.Uasg))
	md.WriteString(fmt.Sprintf("- **Pregão**: %s\n", relatorio.Pregao))
	md.WriteString(fmt.Sprintf("- **Processo**: %s\n", relatorio.Processo))
	md.WriteString(fmt.Sprintf("- **Data de Homologação**: %s\n", relatorio.DataHomologacao))
	md.WriteString(fmt.Sprintf("- **Responsável**: %s\n", relatorio.Responsavel))
	md.WriteString(fmt.Sprintf("- **Valor Total**: R$ %.2f\n\n", relatorio.ValorTotal))

	md.WriteString("## Propostas Adjudicadas\n\n")

	// Uma única proposta com grupo muda a tabela inteira para o layout de
	// grupo.
	temGrupos := false
	for _, p := range relatorio.Propostas {
		if p.Grupo != nil {
			temGrupos = true
			break
		}
	}

	if temGrupos {
		md.WriteString("| Item | Grupo | Descrição | Quantidade | Valor Estimado | Valor Adjudicado | Fornecedor | CNPJ | Marca/Fabricante | Modelo/Versão |\n")
		md.WriteString("|------|--------|-----------|------------|----------------|------------------|------------|------|------------------|---------------|\n")
	} else {
		md.WriteString("| Item | Descrição | Quantidade | Valor Estimado | Valor Adjudicado | Fornecedor | CNPJ | Marca/Fabricante | Modelo/Versão |\n")
		md.WriteString("|------|-----------|------------|----------------|------------------|------------|------|------------------|---------------|\n")
	}

	for _, p := range relatorio.Propostas {
		if temGrupos {
			grupo := extractors.NaoDisponivel
			if p.Grupo != nil {
				grupo = *p.Grupo
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s | R$ %s | R$ %s | %s | %s | %s | %s |\n",
				p.Item, grupo, p.Descricao, p.Quantidade, p.ValorEstimado,
				p.ValorAdjudicado, p.Fornecedor, p.CNPJ, p.MarcaFabricante, p.ModeloVersao))
		} else {
			md.WriteString(fmt.Sprintf("| %s | %s | %s | R$ %s | R$ %s | %s | %s | %s | %s |\n",
				p.Item, p.Descricao, p.Quantidade, p.ValorEstimado,
				p.ValorAdjudicado, p.Fornecedor, p.CNPJ, p.MarcaFabricante, p.ModeloVersao))
		}
	}

	md.WriteString("\n## Detalhes das Propostas\n\n")

	for _, p := range relatorio.Propostas {
		grupoInfo := " "
		if p.Grupo != nil {
			grupoInfo = fmt.Sprintf(" (%s) ", *p.Grupo)
		}

		md.WriteString(fmt.Sprintf("### Item %s%s- %s\n\n", p.Item, grupoInfo, p.Descricao))
		md.WriteString(fmt.Sprintf("- **Quantidade**: %s\n", p.Quantidade))
		md.WriteString(fmt.Sprintf("- **Valor Estimado**: R$ %s\n", p.ValorEstimado))
		md.WriteString(fmt.Sprintf("- **Valor Adjudicado**: R$ %s\n", p.ValorAdjudicado))
		md.WriteString(fmt.Sprintf("- **Fornecedor**: %s\n", p.Fornecedor))
		md.WriteString(fmt.Sprintf("- **CNPJ**: %s\n", p.CNPJ))
		md.WriteString(fmt.Sprintf("- **Melhor Lance**: R$ %s\n", p.MelhorLance))
		md.WriteString(fmt.Sprintf("- **Responsável**: %s\n", p.Responsavel))
		md.WriteString(fmt.Sprintf("- **CPF Responsável**: %s\n", p.CPFResponsavel))
		md.WriteString(fmt.Sprintf("- **Marca/Fabricante**: %s\n", p.MarcaFabricante))
		md.WriteString(fmt.Sprintf("- **Modelo/Versão**: %s\n\n", p.ModeloVersao))
	}

	md.WriteString("## Resumo Estatístico\n\n")
	md.WriteString(fmt.Sprintf("- **Total de Itens Adjudicados**: %d\n", len(relatorio.Propostas)))
	md.WriteString(fmt.Sprintf("- **Valor Total das Adjudicações**: R$ %.2f\n", relatorio.ValorTotal))

	if len(relatorio.Propostas) > 0 {
		valorMedio := relatorio.ValorTotal / float64(len(relatorio.Propostas))
		md.WriteString(fmt.Sprintf("- **Valor Médio por Item**: R$ %.2f\n", valorMedio))
	}

	return md.String()
}
