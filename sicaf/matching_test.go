package sicaf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licitaserver/extractors"
	"licitaserver/processing"
)

func registroDe(cnpj, empresa string) extractors.DadosSicaf {
	return extractors.DadosSicaf{CNPJ: cnpj, Empresa: empresa}
}

func propostaDe(cnpj, fornecedor, item, valor string) processing.PropostaConsolidada {
	return processing.PropostaConsolidada{
		Uasg:            "986531",
		Pregao:          "90012/2024",
		Processo:        "23069001234",
		Item:            item,
		CNPJ:            cnpj,
		Fornecedor:      fornecedor,
		ValorAdjudicado: valor,
	}
}

// TestVerificarCNPJNormalizacao: a consulta é indiferente à pontuação, tanto
// no registro quanto na chave consultada.
func TestVerificarCNPJNormalizacao(t *testing.T) {
	m := NovoMatcher([]extractors.DadosSicaf{
		registroDe("12.345.678/0001-90", "EMPRESA A"),
	})

	assert.True(t, m.VerificarCNPJ("12.345.678/0001-90"))
	assert.True(t, m.VerificarCNPJ("12345678000190"))
	assert.True(t, m.VerificarCNPJ("12 345 678 0001 90"))
	assert.False(t, m.VerificarCNPJ("99.999.999/0001-00"))
}

// TestObterDadosPrimeiroRegistro: com registros duplicados para o mesmo CNPJ,
// a consulta devolve o primeiro na ordem de carga.
func TestObterDadosPrimeiroRegistro(t *testing.T) {
	m := NovoMatcher([]extractors.DadosSicaf{
		registroDe("12.345.678/0001-90", "PRIMEIRA CARGA"),
		registroDe("12345678000190", "SEGUNDA CARGA"),
	})

	dados := m.ObterDados("12.345.678/0001-90")
	require.NotNil(t, dados)
	assert.Equal(t, "PRIMEIRA CARGA", dados.Empresa)
}

func TestObterDadosSemCorrespondencia(t *testing.T) {
	m := NovoMatcher(nil)
	assert.Nil(t, m.ObterDados("12.345.678/0001-90"))
}

// TestComparar: três propostas contra dois registros, uma sem cobertura. O
// relatório preserva a ordem das propostas e os contadores fecham.
func TestComparar(t *testing.T) {
	m := NovoMatcher([]extractors.DadosSicaf{
		registroDe("12.345.678/0001-90", "EMPRESA A"),
		registroDe("11.222.333/0001-44", "EMPRESA B"),
	})

	propostas := []processing.PropostaConsolidada{
		propostaDe("12345678000190", "EMPRESA A LTDA", "1", "1.000,00"),
		propostaDe("55.666.777/0001-88", "SEM REGISTRO ME", "2", "500,00"),
		propostaDe("11.222.333/0001-44", "EMPRESA B SA", "3", "250,00"),
	}

	relatorio := m.Comparar(propostas)

	assert.Equal(t, 3, relatorio.TotalPropostas)
	assert.Equal(t, 2, relatorio.SicafEncontrados)
	assert.Equal(t, 1, relatorio.SicafNaoEncontrados)
	require.Len(t, relatorio.Relatorio, 3)

	assert.Equal(t, "12345678000190", relatorio.Relatorio[0].CNPJ)
	assert.Equal(t, StatusEncontrado, relatorio.Relatorio[0].StatusSicaf)
	require.NotNil(t, relatorio.Relatorio[0].DadosSicaf)
	assert.Equal(t, "EMPRESA A", relatorio.Relatorio[0].DadosSicaf.Empresa)
	assert.Equal(t, "1", relatorio.Relatorio[0].Proposta.Item)
	assert.Equal(t, "1.000,00", relatorio.Relatorio[0].Proposta.ValorAdjudicado)
	assert.Equal(t, "986531", relatorio.Relatorio[0].Proposta.Uasg)

	assert.Equal(t, StatusNaoEncontrado, relatorio.Relatorio[1].StatusSicaf)
	assert.Nil(t, relatorio.Relatorio[1].DadosSicaf)

	assert.Equal(t, StatusEncontrado, relatorio.Relatorio[2].StatusSicaf)
}

// TestCompararSemPropostas: relatório vazio mas bem formado.
func TestCompararSemPropostas(t *testing.T) {
	m := NovoMatcher([]extractors.DadosSicaf{registroDe("12.345.678/0001-90", "EMPRESA A")})

	relatorio := m.Comparar(nil)
	assert.Equal(t, 0, relatorio.TotalPropostas)
	assert.Equal(t, 0, relatorio.SicafEncontrados)
	assert.Equal(t, 0, relatorio.SicafNaoEncontrados)
	assert.Empty(t, relatorio.Relatorio)
	assert.NotEmpty(t, relatorio.DataGeracao)
}

// TestSalvarRelatorio valida o nome do arquivo e os campos do contrato JSON.
func TestSalvarRelatorio(t *testing.T) {
	dir := t.TempDir()
	m := NovoMatcher([]extractors.DadosSicaf{registroDe("12.345.678/0001-90", "EMPRESA A")})
	relatorio := m.Comparar([]processing.PropostaConsolidada{
		propostaDe("12345678000190", "EMPRESA A LTDA", "1", "1.000,00"),
	})

	require.NoError(t, SalvarRelatorio(relatorio, dir))

	conteudo, err := os.ReadFile(filepath.Join(dir, "relatorio_sicaf_comparacao.json"))
	require.NoError(t, err)

	var bruto map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(conteudo, &bruto))
	for _, campo := range []string{"data_geracao", "total_propostas", "sicaf_encontrados", "sicaf_nao_encontrados", "relatorio"} {
		assert.Contains(t, bruto, campo)
	}

	var entradas []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(bruto["relatorio"], &entradas))
	require.Len(t, entradas, 1)
	for _, campo := range []string{"cnpj", "fornecedor", "status_sicaf", "dados_sicaf", "proposta"} {
		assert.Contains(t, entradas[0], campo)
	}
}
