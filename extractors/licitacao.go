package extractors

import (
	"fmt"
	"regexp"
	"strings"
)

// Padrões de metadados da licitação. Cada campo tem seu próprio padrão de
// melhor esforço: um campo não encontrado vira o sentinela NaoDisponivel em
// vez de derrubar o relatório inteiro.
var (
	reUasg            = regexp.MustCompile(`UASG\s*(\d+)`)
	rePregao          = regexp.MustCompile(`PREGÃO\s*(\d+/\d+)`)
	reProcesso        = regexp.MustCompile(`Processo\s*n[ºo°]?\s*(\d+)`)
	reDataHomologacao = regexp.MustCompile(`Às\s*([\d:]+)\s*horas\s*do\s*dia\s*([\d]+)\s*de\s*(\p{L}+)\s*do\s*ano\s*de\s*([\d]+)`)
	reResponsavel     = regexp.MustCompile(`HOMOLOGA\s*a\s*adjudicação.*?([A-Z][A-Z\s]+),`)
)

// ExtrairUasg extrai o código da UASG (unidade gestora) do texto.
func ExtrairUasg(texto string) string {
	if m := reUasg.FindStringSubmatch(texto); m != nil {
		return m[1]
	}
	return NaoDisponivel
}

// ExtrairPregao extrai o número do pregão ("NN/AAAA") do texto.
func ExtrairPregao(texto string) string {
	if m := rePregao.FindStringSubmatch(texto); m != nil {
		return m[1]
	}
	return NaoDisponivel
}

// ExtrairProcesso extrai o número do processo administrativo do texto.
func ExtrairProcesso(texto string) string {
	if m := reProcesso.FindStringSubmatch(texto); m != nil {
		return m[1]
	}
	return NaoDisponivel
}

// ExtrairDataHomologacao extrai a data de homologação por extenso, no formato
// em que as atas a imprimem ("Às HH:MM horas do dia D de MÊS do ano de AAAA").
func ExtrairDataHomologacao(texto string) string {
	if m := reDataHomologacao.FindStringSubmatch(texto); m != nil {
		return fmt.Sprintf("Às %s horas do dia %s de %s do ano de %s", m[1], m[2], m[3], m[4])
	}
	return NaoDisponivel
}

// ExtrairResponsavel extrai o nome do responsável pela homologação a partir
// da sentença "HOMOLOGA a adjudicação".
func ExtrairResponsavel(texto string) string {
	if m := reResponsavel.FindStringSubmatch(texto); m != nil {
		return strings.TrimSpace(m[1])
	}
	return NaoDisponivel
}
