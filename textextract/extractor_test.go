package textextract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestTextoPlanoUTF8 verifica a leitura direta de arquivos UTF-8.
func TestTextoPlanoUTF8(t *testing.T) {
	dir := t.TempDir()
	caminho := filepath.Join(dir, "ata.txt")
	conteudo := "PREGÃO 15/2024\nAdjudicação homologada\n"
	if err := os.WriteFile(caminho, []byte(conteudo), 0o644); err != nil {
		t.Fatal(err)
	}

	e := &TextoPlano{}
	texto, err := e.ExtrairTexto(caminho)
	if err != nil {
		t.Fatalf("ExtrairTexto() error = %v", err)
	}
	if texto != conteudo {
		t.Errorf("texto = %q, want %q", texto, conteudo)
	}
}

// TestTextoPlanoWindows1252 verifica a transcodificação de dumps antigos.
func TestTextoPlanoWindows1252(t *testing.T) {
	dir := t.TempDir()
	caminho := filepath.Join(dir, "ata.txt")
	// "PREGÃO" em Windows-1252: Ã é o byte 0xC3 sem continuação UTF-8.
	bruto := []byte{'P', 'R', 'E', 'G', 0xC3, 'O', ' ', '1', '5'}
	if err := os.WriteFile(caminho, bruto, 0o644); err != nil {
		t.Fatal(err)
	}

	e := &TextoPlano{}
	texto, err := e.ExtrairTexto(caminho)
	if err != nil {
		t.Fatalf("ExtrairTexto() error = %v", err)
	}
	if texto != "PREGÃO 15" {
		t.Errorf("texto = %q, want %q", texto, "PREGÃO 15")
	}
}

// TestTextoPlanoArquivoInexistente: arquivo ilegível é a falha individual do
// documento.
func TestTextoPlanoArquivoInexistente(t *testing.T) {
	e := &TextoPlano{}
	if _, err := e.ExtrairTexto(filepath.Join(t.TempDir(), "nao_existe.txt")); err == nil {
		t.Error("ExtrairTexto() error = nil, want erro")
	}
}

// TestHTMLExtraiTextoVisivel verifica a extração de texto de atas HTML,
// descartando scripts e estilos.
func TestHTMLExtraiTextoVisivel(t *testing.T) {
	dir := t.TempDir()
	caminho := filepath.Join(dir, "ata.html")
	pagina := `<html><head><style>body{color:red}</style></head><body>
<h1>ATA DO PREGÃO 15/2024</h1>
<script>alert("x")</script>
<table><tr><td>UASG 120001</td></tr></table>
<p>Processo nº 64000123456</p>
</body></html>`
	if err := os.WriteFile(caminho, []byte(pagina), 0o644); err != nil {
		t.Fatal(err)
	}

	e := &HTML{}
	texto, err := e.ExtrairTexto(caminho)
	if err != nil {
		t.Fatalf("ExtrairTexto() error = %v", err)
	}

	for _, trecho := range []string{"ATA DO PREGÃO 15/2024", "UASG 120001", "Processo nº 64000123456"} {
		if !strings.Contains(texto, trecho) {
			t.Errorf("texto extraído não contém %q:\n%s", trecho, texto)
		}
	}
	for _, indesejado := range []string{"alert", "color:red"} {
		if strings.Contains(texto, indesejado) {
			t.Errorf("texto extraído contém conteúdo não visível %q", indesejado)
		}
	}
}

// TestPorExtensaoDespacho verifica o despacho por extensão e o erro de
// entrada para extensões desconhecidas.
func TestPorExtensaoDespacho(t *testing.T) {
	p := NovoPorExtensao()

	tests := []struct {
		caminho string
		suporta bool
	}{
		{"ata.txt", true},
		{"ata.TXT", true},
		{"ata.html", true},
		{"ata.htm", true},
		{"ata.pdf", false},
		{"ata", false},
	}

	for _, tt := range tests {
		if got := p.Suporta(tt.caminho); got != tt.suporta {
			t.Errorf("Suporta(%q) = %v, want %v", tt.caminho, got, tt.suporta)
		}
	}

	if _, err := p.ExtrairTexto("ata.pdf"); err == nil {
		t.Error("ExtrairTexto(.pdf) error = nil, want erro de extensão não suportada")
	}
}
