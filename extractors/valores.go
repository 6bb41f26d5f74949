package extractors

import (
	"regexp"
	"strconv"
	"strings"
)

// NaoDisponivel é o valor sentinela usado quando um campo não pôde ser
// extraído do texto. Uma extração que não encontra o campo não é um erro.
const NaoDisponivel = "N/A"

var reNaoDigito = regexp.MustCompile(`\D`)

// ConverterValorParaFloat converte um valor monetário no formato brasileiro
// ("1.234,56") para float64. Remove o separador de milhar e troca a vírgula
// decimal pelo ponto. Entrada vazia ou malformada resulta em 0.0: uma falha
// de recuperação de campo não pode abortar a agregação de uma proposta
// válida.
func ConverterValorParaFloat(valor string) float64 {
	normalizado := strings.ReplaceAll(valor, ".", "")
	normalizado = strings.ReplaceAll(normalizado, ",", ".")

	f, err := strconv.ParseFloat(strings.TrimSpace(normalizado), 64)
	if err != nil {
		return 0.0
	}
	return f
}

// NormalizarCNPJ remove todo caractere que não for dígito. Os documentos
// fonte formatam o CNPJ de maneira inconsistente ("12.345.678/0001-90",
// "12345678000190"), então toda comparação de identificadores acontece
// somente após esta normalização.
func NormalizarCNPJ(cnpj string) string {
	return reNaoDigito.ReplaceAllString(cnpj, "")
}
