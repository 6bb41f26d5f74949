package extractors

import (
	"testing"
)

const textoGrupo = `PREGÃO 15/2024 UASG 120001
Item 1 do Grupo G2 - Cabo de rede categoria 6
Quantidade: 100
Valor estimado: R$ 1.200,00
Situação: Adjudicado e Homologado
Adjudicado e Homologado por CPF ***.123.***-*4 - MARIA SOUZA para ACME REDES LTDA, CNPJ 12.345.678/0001-90, melhor lance: R$ 1.000,00
`

const textoIndividual = `PREGÃO 22/2024 UASG 120001
Item 3 - Switch gerenciável 24 portas
Quantidade: 10
Valor estimado: R$ 5.000,00
Adjudicado e Homologado por CPF ***.456.***-*1 - JOAO PEREIRA, para BETA TELECOM LTDA, CNPJ 98.765.432/0001-10, melhor lance: R$ 4.500,00
98.765.432/0001-10
Proposta adjudicada
Marca/Fabricante: BETANET
Modelo/versão: BT-2400
`

// TestExtrairPropostasGrupo cobre o caminho fim a fim do formato de grupo.
func TestExtrairPropostasGrupo(t *testing.T) {
	propostas := ExtrairPropostas(textoGrupo)

	if len(propostas) != 1 {
		t.Fatalf("ExtrairPropostas() retornou %d propostas, want 1", len(propostas))
	}

	p := propostas[0]
	if p.Item != "1" {
		t.Errorf("Item = %q, want %q", p.Item, "1")
	}
	if p.Grupo == nil || *p.Grupo != "G2" {
		t.Errorf("Grupo = %v, want G2", p.Grupo)
	}
	if p.Descricao != "Cabo de rede categoria 6" {
		t.Errorf("Descricao = %q", p.Descricao)
	}
	if p.Quantidade != "100" {
		t.Errorf("Quantidade = %q, want %q", p.Quantidade, "100")
	}
	if p.ValorEstimado != "1.200,00" {
		t.Errorf("ValorEstimado = %q, want %q", p.ValorEstimado, "1.200,00")
	}
	if p.ValorAdjudicado != "1.000,00" {
		t.Errorf("ValorAdjudicado = %q, want %q", p.ValorAdjudicado, "1.000,00")
	}
	if NormalizarCNPJ(p.CNPJ) != "12345678000190" {
		t.Errorf("CNPJ normalizado = %q, want %q", NormalizarCNPJ(p.CNPJ), "12345678000190")
	}
	if p.Fornecedor != "ACME REDES LTDA" {
		t.Errorf("Fornecedor = %q", p.Fornecedor)
	}
	if p.TipoFormato != FormatoGrupo {
		t.Errorf("TipoFormato = %q, want %q", p.TipoFormato, FormatoGrupo)
	}
	if p.MarcaFabricante != NaoDisponivel || p.ModeloVersao != NaoDisponivel {
		t.Errorf("marca/modelo no formato de grupo devem ser %q", NaoDisponivel)
	}
}

// TestExtrairPropostasIndividuais cobre o formato individual com recuperação
// de campos por proximidade.
func TestExtrairPropostasIndividuais(t *testing.T) {
	propostas := ExtrairPropostas(textoIndividual)

	if len(propostas) != 1 {
		t.Fatalf("ExtrairPropostas() retornou %d propostas, want 1", len(propostas))
	}

	p := propostas[0]
	if p.TipoFormato != FormatoIndividual {
		t.Errorf("TipoFormato = %q, want %q", p.TipoFormato, FormatoIndividual)
	}
	if p.Grupo != nil {
		t.Errorf("Grupo = %v, want nil", *p.Grupo)
	}
	if p.Item != "3" {
		t.Errorf("Item = %q, want %q (recuperado por proximidade)", p.Item, "3")
	}
	if p.Quantidade != "10" {
		t.Errorf("Quantidade = %q, want %q", p.Quantidade, "10")
	}
	if p.ValorEstimado != "5.000,00" {
		t.Errorf("ValorEstimado = %q, want %q", p.ValorEstimado, "5.000,00")
	}
	if p.Fornecedor != "BETA TELECOM LTDA" {
		t.Errorf("Fornecedor = %q", p.Fornecedor)
	}
	if p.Responsavel != "JOAO PEREIRA" {
		t.Errorf("Responsavel = %q", p.Responsavel)
	}
	if p.CPFResponsavel != "***.456.***-*1" {
		t.Errorf("CPFResponsavel = %q", p.CPFResponsavel)
	}
	if p.MelhorLance != "4.500,00" || p.ValorAdjudicado != "4.500,00" {
		t.Errorf("MelhorLance/ValorAdjudicado = %q/%q, want 4.500,00", p.MelhorLance, p.ValorAdjudicado)
	}
	if p.MarcaFabricante != "BETANET" {
		t.Errorf("MarcaFabricante = %q, want %q", p.MarcaFabricante, "BETANET")
	}
	if p.ModeloVersao != "BT-2400" {
		t.Errorf("ModeloVersao = %q, want %q", p.ModeloVersao, "BT-2400")
	}
}

// TestExtrairPropostasValorNegociado verifica que a variante com valor
// negociado tem prioridade e que o valor adjudicado passa a ser o negociado.
func TestExtrairPropostasValorNegociado(t *testing.T) {
	texto := `Item 7
Adjudicado e Homologado por CPF ***.222.***-*9 - ANA LIMA, para GAMA SERVICOS LTDA, CNPJ 11.222.333/0001-44, melhor lance: R$ 9.000,00, valor negociado: R$ 8.500,00
`
	propostas := ExtrairPropostasIndividuais(texto)
	if len(propostas) != 1 {
		t.Fatalf("retornou %d propostas, want 1", len(propostas))
	}
	// A classe de valor inclui a vírgula, então a vírgula que separa o melhor
	// lance do valor negociado fica dentro da captura.
	if propostas[0].MelhorLance != "9.000,00," {
		t.Errorf("MelhorLance = %q, want %q", propostas[0].MelhorLance, "9.000,00,")
	}
	if propostas[0].ValorAdjudicado != "8.500,00" {
		t.Errorf("ValorAdjudicado = %q, want %q", propostas[0].ValorAdjudicado, "8.500,00")
	}
}

// TestExtrairPropostasGrafiaAdjucado preserva a grafia alternativa "Adjucado"
// encontrada em parte das atas.
func TestExtrairPropostasGrafiaAdjucado(t *testing.T) {
	texto := `Adjucado e Homologado por CPF ***.888.***-*2 - CARLOS NUNES, para DELTA COMERCIO LTDA, CNPJ 55.666.777/0001-88, melhor lance: R$ 300,00
`
	propostas := ExtrairPropostasIndividuais(texto)
	if len(propostas) != 1 {
		t.Fatalf("retornou %d propostas, want 1", len(propostas))
	}
	if propostas[0].Fornecedor != "DELTA COMERCIO LTDA" {
		t.Errorf("Fornecedor = %q", propostas[0].Fornecedor)
	}
}

// TestExtrairPropostasDeduplicacao verifica que duas ocorrências literais da
// mesma adjudicação geram exatamente uma proposta.
func TestExtrairPropostasDeduplicacao(t *testing.T) {
	sentenca := "Adjudicado e Homologado por CPF ***.456.***-*1 - JOAO PEREIRA, para BETA TELECOM LTDA, CNPJ 98.765.432/0001-10, melhor lance: R$ 4.500,00\n"
	texto := sentenca + "texto intermediário\n" + sentenca

	propostas := ExtrairPropostasIndividuais(texto)
	if len(propostas) != 1 {
		t.Errorf("duplicata por CNPJ não foi suprimida: %d propostas", len(propostas))
	}
}

// TestExtrairPropostasGrupoDeduplicacao verifica a chave (item, cnpj) do
// formato de grupo.
func TestExtrairPropostasGrupoDeduplicacao(t *testing.T) {
	texto := textoGrupo + "\n" + textoGrupo
	propostas := ExtrairPropostasGrupo(texto)
	if len(propostas) != 1 {
		t.Errorf("duplicata por (item, cnpj) não foi suprimida: %d propostas", len(propostas))
	}
}

// TestExtrairPropostasSemAdjudicacao: ausência de adjudicações não é erro,
// o resultado é uma fatia vazia (item cancelado, por exemplo).
func TestExtrairPropostasSemAdjudicacao(t *testing.T) {
	tests := []struct {
		name  string
		texto string
	}{
		{"texto vazio", ""},
		{"item cancelado", "Item 1 - Cancelado no julgamento\nSituação: Cancelado"},
		{"texto qualquer", "relatório sem nenhuma adjudicação registrada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if propostas := ExtrairPropostas(tt.texto); len(propostas) != 0 {
				t.Errorf("ExtrairPropostas() = %d propostas, want 0", len(propostas))
			}
		})
	}
}

// TestExtrairPropostasGrupoTemPrecedencia: havendo propostas de grupo, os
// padrões individuais não são aplicados.
func TestExtrairPropostasGrupoTemPrecedencia(t *testing.T) {
	texto := textoGrupo + `
Adjudicado e Homologado por CPF ***.456.***-*1 - JOAO PEREIRA, para BETA TELECOM LTDA, CNPJ 98.765.432/0001-10, melhor lance: R$ 4.500,00
`
	propostas := ExtrairPropostas(texto)
	for _, p := range propostas {
		if p.TipoFormato != FormatoGrupo {
			t.Errorf("proposta %s extraída pelo formato %q, want somente %q", p.CNPJ, p.TipoFormato, FormatoGrupo)
		}
	}
}

// TestExtrairCPFDoResponsavel verifica a recuperação do CPF mascarado do
// campo livre do responsável.
func TestExtrairCPFDoResponsavel(t *testing.T) {
	tests := []struct {
		name        string
		responsavel string
		want        string
	}{
		{
			name:        "CPF mascarado presente",
			responsavel: "***.123.***-*4 MARIA SOUZA",
			want:        "***.123.***-*4",
		},
		{
			name:        "sem CPF",
			responsavel: "MARIA SOUZA",
			want:        NaoDisponivel,
		},
		{
			name:        "CPF sem máscara não casa",
			responsavel: "123.456.789-00 MARIA SOUZA",
			want:        NaoDisponivel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtrairCPFDoResponsavel(tt.responsavel); got != tt.want {
				t.Errorf("ExtrairCPFDoResponsavel(%q) = %q, want %q", tt.responsavel, got, tt.want)
			}
		})
	}
}

// TestCamposNaoRecuperados: campos de proximidade ausentes viram sentinela,
// nunca erro.
func TestCamposNaoRecuperados(t *testing.T) {
	texto := "Adjudicado e Homologado por CPF ***.111.***-*0 - PEDRO COSTA, para OMEGA LTDA, CNPJ 44.555.666/0001-77, melhor lance: R$ 120,00\n"

	propostas := ExtrairPropostasIndividuais(texto)
	if len(propostas) != 1 {
		t.Fatalf("retornou %d propostas, want 1", len(propostas))
	}

	p := propostas[0]
	for campo, valor := range map[string]string{
		"Item":            p.Item,
		"Quantidade":      p.Quantidade,
		"ValorEstimado":   p.ValorEstimado,
		"MarcaFabricante": p.MarcaFabricante,
		"ModeloVersao":    p.ModeloVersao,
	} {
		if valor != NaoDisponivel {
			t.Errorf("%s = %q, want sentinela %q", campo, valor, NaoDisponivel)
		}
	}
	if p.Descricao != NaoDisponivel {
		t.Errorf("Descricao = %q, want sentinela %q", p.Descricao, NaoDisponivel)
	}
}
