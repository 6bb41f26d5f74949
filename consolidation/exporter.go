package consolidation

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"licitaserver/extractors"
	"licitaserver/processing"
)

// FormatoExportacao formato de exportação do consolidado.
type FormatoExportacao string

const (
	FormatoCSV   FormatoExportacao = "csv"
	FormatoExcel FormatoExportacao = "excel"
)

var cabecalhosExportacao = []string{
	"UASG", "Pregão", "Processo", "Item", "Grupo", "Descrição", "Quantidade",
	"Valor Estimado", "Valor Adjudicado", "Fornecedor", "CNPJ",
	"Marca/Fabricante", "Modelo/Versão", "Formato",
}

// Exportar grava o conjunto consolidado no formato pedido.
func Exportar(propostas []processing.PropostaConsolidada, formato FormatoExportacao, caminho string) error {
	switch formato {
	case FormatoCSV:
		return ExportarCSV(propostas, caminho)
	case FormatoExcel:
		return ExportarExcel(propostas, caminho)
	default:
		return fmt.Errorf("formato de exportação desconhecido: %s", formato)
	}
}

// ExportarCSV exporta as propostas consolidadas para CSV.
func ExportarCSV(propostas []processing.PropostaConsolidada, caminho string) error {
	arquivo, err := os.Create(caminho)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo CSV: %w", err)
	}
	defer arquivo.Close()

	w := csv.NewWriter(arquivo)
	defer w.Flush()

	if err := w.Write(cabecalhosExportacao); err != nil {
		return fmt.Errorf("erro ao gravar cabeçalhos: %w", err)
	}

	for _, p := range propostas {
		if err := w.Write(linhaExportacao(p)); err != nil {
			return fmt.Errorf("erro ao gravar registro: %w", err)
		}
	}

	return w.Error()
}

// ExportarExcel exporta as propostas consolidadas para uma planilha XLSX com
// uma aba por lote.
func ExportarExcel(propostas []processing.PropostaConsolidada, caminho string) error {
	f := excelize.NewFile()
	defer f.Close()

	const aba = "Propostas"
	indice, err := f.NewSheet(aba)
	if err != nil {
		return fmt.Errorf("erro ao criar aba: %w", err)
	}
	f.SetActiveSheet(indice)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("erro ao remover aba padrão: %w", err)
	}

	for col, cabecalho := range cabecalhosExportacao {
		celula, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("erro ao montar célula: %w", err)
		}
		if err := f.SetCellValue(aba, celula, cabecalho); err != nil {
			return fmt.Errorf("erro ao gravar cabeçalho: %w", err)
		}
	}

	for linha, p := range propostas {
		valores := linhaExportacao(p)
		for col, valor := range valores {
			celula, err := excelize.CoordinatesToCellName(col+1, linha+2)
			if err != nil {
				return fmt.Errorf("erro ao montar célula: %w", err)
			}
			if err := f.SetCellValue(aba, celula, valor); err != nil {
				return fmt.Errorf("erro ao gravar registro: %w", err)
			}
		}
	}

	if err := f.SaveAs(caminho); err != nil {
		return fmt.Errorf("erro ao salvar planilha: %w", err)
	}

	return nil
}

func linhaExportacao(p processing.PropostaConsolidada) []string {
	grupo := extractors.NaoDisponivel
	if p.Grupo != nil {
		grupo = *p.Grupo
	}
	return []string{
		p.Uasg, p.Pregao, p.Processo, p.Item, grupo, p.Descricao,
		p.Quantidade, p.ValorEstimado, p.ValorAdjudicado, p.Fornecedor,
		p.CNPJ, p.MarcaFabricante, p.ModeloVersao, p.TipoFormato,
	}
}
