// Package textextract é a fronteira com o serviço de conversão de documento
// para texto. O núcleo de extração opera somente sobre texto linear; este
// pacote entrega esse texto a partir dos formatos de arquivo suportados.
// A conversão de PDF continua externa: o binário que alimenta o serviço deve
// depositar os documentos já convertidos (.txt ou .html) no diretório de
// entrada.
package textextract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Extractor converte um documento em texto plano. Qualquer falha (arquivo
// corrompido, ilegível) é devolvida como erro e tratada pelo chamador como a
// falha individual daquele documento.
type Extractor interface {
	// ExtrairTexto lê o documento e devolve seu conteúdo como texto linear.
	ExtrairTexto(caminho string) (string, error)
	// Suporta informa se o extrator reconhece a extensão do arquivo.
	Suporta(caminho string) bool
}

// PorExtensao despacha para o extrator adequado pela extensão do arquivo.
type PorExtensao struct {
	extratores []Extractor
}

// NovoPorExtensao cria o despachante padrão: texto plano e HTML.
func NovoPorExtensao() *PorExtensao {
	return &PorExtensao{
		extratores: []Extractor{
			&TextoPlano{},
			&HTML{},
		},
	}
}

// ExtrairTexto despacha pela extensão. Extensão não suportada é um erro de
// entrada: nenhuma extração é tentada.
func (p *PorExtensao) ExtrairTexto(caminho string) (string, error) {
	for _, e := range p.extratores {
		if e.Suporta(caminho) {
			return e.ExtrairTexto(caminho)
		}
	}
	return "", fmt.Errorf("extensão não suportada: %s", filepath.Ext(caminho))
}

// Suporta informa se algum extrator registrado reconhece o arquivo.
func (p *PorExtensao) Suporta(caminho string) bool {
	for _, e := range p.extratores {
		if e.Suporta(caminho) {
			return true
		}
	}
	return false
}

// TextoPlano lê arquivos .txt. Boa parte dos dumps de atas chega em
// Windows-1252; conteúdo que não for UTF-8 válido é transcodificado.
type TextoPlano struct{}

// Suporta reconhece a extensão .txt.
func (t *TextoPlano) Suporta(caminho string) bool {
	return strings.EqualFold(filepath.Ext(caminho), ".txt")
}

// ExtrairTexto lê o arquivo e garante UTF-8 na saída.
func (t *TextoPlano) ExtrairTexto(caminho string) (string, error) {
	conteudo, err := os.ReadFile(caminho)
	if err != nil {
		return "", fmt.Errorf("erro ao ler arquivo de texto: %w", err)
	}

	if utf8.Valid(conteudo) {
		return string(conteudo), nil
	}

	// Transcodifica de Windows-1252, o encoding usual dos dumps antigos.
	decodificado, err := io.ReadAll(transform.NewReader(
		strings.NewReader(string(conteudo)), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("erro ao transcodificar arquivo de texto: %w", err)
	}

	return string(decodificado), nil
}
