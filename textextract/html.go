package textextract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var reEspacosRepetidos = regexp.MustCompile(`[ \t]+`)

// HTML lê atas publicadas como página HTML (o Comprasnet exporta atas nesse
// formato) e devolve o texto visível, preservando quebras de linha entre
// blocos para que os padrões de extração linha a linha continuem funcionando.
type HTML struct{}

// Suporta reconhece as extensões .html e .htm.
func (h *HTML) Suporta(caminho string) bool {
	ext := strings.ToLower(filepath.Ext(caminho))
	return ext == ".html" || ext == ".htm"
}

// ExtrairTexto converte a página em texto linear.
func (h *HTML) ExtrairTexto(caminho string) (string, error) {
	f, err := os.Open(caminho)
	if err != nil {
		return "", fmt.Errorf("erro ao abrir arquivo HTML: %w", err)
	}
	defer f.Close()

	raiz, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("erro ao parsear HTML: %w", err)
	}

	doc := goquery.NewDocumentFromNode(raiz)
	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	var percorrer func(n *html.Node)
	percorrer = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if texto := strings.TrimSpace(n.Data); texto != "" {
				sb.WriteString(texto)
				sb.WriteString(" ")
			}
		case html.ElementNode:
			// Elementos de bloco delimitam linhas do texto extraído.
			switch n.Data {
			case "br", "p", "div", "tr", "li", "h1", "h2", "h3", "h4", "table":
				sb.WriteString("\n")
			}
		}
		for filho := n.FirstChild; filho != nil; filho = filho.NextSibling {
			percorrer(filho)
		}
	}

	corpo := doc.Find("body")
	if corpo.Length() == 0 {
		percorrer(raiz)
	} else {
		for _, n := range corpo.Nodes {
			percorrer(n)
		}
	}

	texto := reEspacosRepetidos.ReplaceAllString(sb.String(), " ")
	return strings.TrimSpace(texto), nil
}
