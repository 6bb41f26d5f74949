package consolidation

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"licitaserver/processing"
)

// TestExportarCSV verifica cabeçalhos e linhas do CSV exportado.
func TestExportarCSV(t *testing.T) {
	caminho := filepath.Join(t.TempDir(), "consolidado.csv")
	propostas := []processing.PropostaConsolidada{
		propostaDe("120001", "15/2024", "999", "100,00"),
		propostaDe("310099", "7/2024", "123", "50,00"),
	}

	if err := ExportarCSV(propostas, caminho); err != nil {
		t.Fatalf("ExportarCSV() error = %v", err)
	}

	arquivo, err := os.Open(caminho)
	if err != nil {
		t.Fatal(err)
	}
	defer arquivo.Close()

	linhas, err := csv.NewReader(arquivo).ReadAll()
	if err != nil {
		t.Fatalf("CSV inválido: %v", err)
	}

	if len(linhas) != 3 {
		t.Fatalf("linhas = %d, want 3 (cabeçalho + 2 registros)", len(linhas))
	}
	if linhas[0][0] != "UASG" || linhas[0][10] != "CNPJ" {
		t.Errorf("cabeçalhos = %v", linhas[0])
	}
	if linhas[1][0] != "120001" || linhas[2][0] != "310099" {
		t.Errorf("ordem dos registros não preservada: %v / %v", linhas[1][0], linhas[2][0])
	}
	// Proposta sem grupo usa o sentinela na coluna de grupo.
	if linhas[1][4] != "N/A" {
		t.Errorf("coluna Grupo = %q, want N/A", linhas[1][4])
	}
}

// TestExportarExcel grava a planilha e a lê de volta.
func TestExportarExcel(t *testing.T) {
	caminho := filepath.Join(t.TempDir(), "consolidado.xlsx")
	propostas := []processing.PropostaConsolidada{
		propostaDe("120001", "15/2024", "999", "100,00"),
	}

	if err := ExportarExcel(propostas, caminho); err != nil {
		t.Fatalf("ExportarExcel() error = %v", err)
	}

	f, err := excelize.OpenFile(caminho)
	if err != nil {
		t.Fatalf("planilha ilegível: %v", err)
	}
	defer f.Close()

	uasg, err := f.GetCellValue("Propostas", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if uasg != "120001" {
		t.Errorf("A2 = %q, want %q", uasg, "120001")
	}

	cabecalho, err := f.GetCellValue("Propostas", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if cabecalho != "UASG" {
		t.Errorf("A1 = %q, want %q", cabecalho, "UASG")
	}
}

// TestExportarFormatoDesconhecido: formato inválido é erro de entrada.
func TestExportarFormatoDesconhecido(t *testing.T) {
	if err := Exportar(nil, "xml", filepath.Join(t.TempDir(), "x.xml")); err == nil {
		t.Error("Exportar() error = nil, want erro de formato desconhecido")
	}
}
