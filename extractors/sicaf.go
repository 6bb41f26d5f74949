package extractors

import (
	"regexp"
	"strings"
)

// DadosSicaf é o registro de um fornecedor em um certificado SICAF. Campos
// ausentes do certificado ficam nil, não string vazia.
type DadosSicaf struct {
	CNPJ             string  `json:"cnpj"`
	DUNS             *string `json:"duns"`
	Empresa          string  `json:"empresa"`
	NomeFantasia     *string `json:"nome_fantasia"`
	SituacaoCadastro *string `json:"situacao_cadastro"`
	DataVencimento   *string `json:"data_vencimento"`
	CEP              *string `json:"cep"`
	Endereco         *string `json:"endereco"`
	Municipio        *string `json:"municipio"`
	UF               *string `json:"uf"`
	Telefone         *string `json:"telefone"`
	Email            *string `json:"email"`
	CPFResponsavel   *string `json:"cpf_responsavel"`
	NomeResponsavel  *string `json:"nome_responsavel"`
}

// Padrão principal do certificado SICAF: uma única passada ancorada entre o
// rótulo "CNPJ:" e o marcador "Dados do Responsável Legal" captura
// identificação, situação cadastral e bloco de contato.
var reDadosSicaf = regexp.MustCompile(`(?s)CNPJ:\s*(?P<cnpj>[\d./-]+)\s*(?:DUNS®:\s*(?P<duns>[\d]+)\s*)?Razão Social:\s*(?P<empresa>.*?)\s*Nome Fantasia:\s*(?P<nome_fantasia>.*?)\s*Situação do Fornecedor:\s*(?P<situacao_cadastro>.*?)\s*Data de Vencimento do Cadastro:\s*(?P<data_vencimento>\d{2}/\d{2}/\d{4})\s*Dados do Nível.*?Dados para Contato\s*CEP:\s*(?P<cep>[\d.-]+)\s*Endereço:\s*(?P<endereco>.*?)\s*Município\s*/\s*UF:\s*(?P<municipio>.*?)\s*/\s*(?P<uf>.*?)\s*Telefone:\s*(?P<telefone>.*?)\s*E-mail:\s*(?P<email>.*?)\s*Dados do Responsável Legal`)

// Padrão secundário: logo após "Dados do Responsável Legal", termina no que
// aparecer primeiro entre "Dados do Responsável pelo Cadastro", "Emitido em:",
// um "CPF:" repetido ou o fim do texto.
var reDadosResponsavel = regexp.MustCompile(`(?s)Dados do Responsável Legal\s*CPF:\s*(?P<cpf>\d{3}\.\d{3}\.\d{3}-\d{2})\s*Nome:\s*(?P<nome>[^\n\r]*?)(?:\s*Dados do Responsável pelo Cadastro|\s*Emitido em:|\s*CPF:|$)`)

// ExtrairDadosSicaf extrai no máximo um registro de fornecedor de um
// certificado SICAF. Texto sem as âncoras esperadas não é um certificado e
// devolve nil; isso não é um erro.
func ExtrairDadosSicaf(texto string) *DadosSicaf {
	m := reDadosSicaf.FindStringSubmatch(texto)
	if m == nil {
		return nil
	}

	dados := &DadosSicaf{
		CNPJ:             strings.TrimSpace(grupoNomeado(reDadosSicaf, m, "cnpj")),
		DUNS:             opcional(grupoNomeado(reDadosSicaf, m, "duns")),
		Empresa:          strings.TrimSpace(grupoNomeado(reDadosSicaf, m, "empresa")),
		NomeFantasia:     opcional(grupoNomeado(reDadosSicaf, m, "nome_fantasia")),
		SituacaoCadastro: opcional(grupoNomeado(reDadosSicaf, m, "situacao_cadastro")),
		DataVencimento:   opcional(grupoNomeado(reDadosSicaf, m, "data_vencimento")),
		CEP:              opcional(grupoNomeado(reDadosSicaf, m, "cep")),
		Endereco:         opcional(grupoNomeado(reDadosSicaf, m, "endereco")),
		Municipio:        opcional(grupoNomeado(reDadosSicaf, m, "municipio")),
		UF:               opcional(grupoNomeado(reDadosSicaf, m, "uf")),
		Telefone:         opcional(grupoNomeado(reDadosSicaf, m, "telefone")),
		Email:            opcional(grupoNomeado(reDadosSicaf, m, "email")),
	}

	if cpf, nome, ok := ExtrairDadosResponsavel(texto); ok {
		dados.CPFResponsavel = &cpf
		dados.NomeResponsavel = &nome
	}

	return dados
}

// ExtrairDadosResponsavel extrai CPF e nome do responsável legal do bloco que
// segue o marcador "Dados do Responsável Legal".
func ExtrairDadosResponsavel(texto string) (cpf, nome string, ok bool) {
	m := reDadosResponsavel.FindStringSubmatch(texto)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(grupoNomeado(reDadosResponsavel, m, "cpf")),
		strings.TrimSpace(grupoNomeado(reDadosResponsavel, m, "nome")),
		true
}

// opcional converte uma captura em campo opcional: espaço em branco vira nil.
func opcional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
