package processing

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"licitaserver/extractors"
	"licitaserver/textextract"
)

// ProgressoFunc recebe o progresso do lote: quantos documentos já foram
// processados, o total fixado antes do início e o documento em andamento
// (nil no aviso pós-conclusão). É chamada exatamente duas vezes por
// documento, antes e depois, com contagem monotônica.
type ProgressoFunc func(processados, total int, arquivoAtual *string)

// Processor aplica o pipeline de extração a documentos e diretórios. O
// processamento de um lote é estritamente sequencial: a extração, a
// renderização e a escrita em disco de um documento terminam antes do
// próximo começar.
type Processor struct {
	Extrator textextract.Extractor
	Logger   *slog.Logger
}

// NovoProcessor cria um Processor com o despachante de extratores padrão.
func NovoProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Extrator: textextract.NovoPorExtensao(),
		Logger:   logger,
	}
}

// ProcessarArquivo processa um único documento: extrai o texto, monta o
// relatório, grava o Markdown em outputDir e devolve as propostas
// consolidadas. Falha de leitura ou de escrita aborta somente este
// documento.
func (p *Processor) ProcessarArquivo(caminho, outputDir string) ([]PropostaConsolidada, error) {
	if _, err := os.Stat(caminho); err != nil {
		return nil, fmt.Errorf("documento não encontrado: %w", err)
	}

	texto, err := p.Extrator.ExtrairTexto(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao extrair texto de %s: %w", caminho, err)
	}

	propostas := extractors.ExtrairPropostas(texto)
	relatorio := MontarRelatorio(texto, propostas)

	p.Logger.Info("documento processado",
		"arquivo", caminho,
		"formato", formatoDasPropostas(propostas),
		"propostas", len(propostas),
		"valor_total", relatorio.ValorTotal,
	)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	nome := strings.TrimSuffix(filepath.Base(caminho), filepath.Ext(caminho))
	destino := filepath.Join(outputDir, nome+".md")
	if err := os.WriteFile(destino, []byte(GerarMarkdown(relatorio)), 0o644); err != nil {
		return nil, fmt.Errorf("erro ao salvar arquivo Markdown: %w", err)
	}

	return relatorio.Consolidar(), nil
}

// ProcessarDiretorio processa recursivamente todos os documentos suportados
// de inputDir, acumulando as propostas consolidadas de todos eles. O total é
// fixado antes do laço: documentos adicionados ao diretório durante a
// execução não entram neste lote. A falha de um documento é registrada e
// pulada; o lote continua e o resultado parcial é devolvido junto com as
// mensagens de erro por documento.
func (p *Processor) ProcessarDiretorio(inputDir, outputDir string, progresso ProgressoFunc) ([]PropostaConsolidada, []string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("diretório de entrada não encontrado: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("caminho de entrada não é um diretório: %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	arquivos, err := p.listarDocumentos(inputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao listar documentos: %w", err)
	}

	if progresso == nil {
		progresso = func(int, int, *string) {}
	}

	var todas []PropostaConsolidada
	var erros []string
	total := len(arquivos)

	for i, arquivo := range arquivos {
		atual := arquivo
		progresso(i, total, &atual)

		consolidadas, err := p.ProcessarArquivo(arquivo, outputDir)
		if err != nil {
			p.Logger.Error("falha ao processar documento, pulando",
				"arquivo", arquivo, "error", err)
			erros = append(erros, fmt.Sprintf("%s: %v", arquivo, err))
		} else {
			todas = append(todas, consolidadas...)
		}

		progresso(i+1, total, nil)
	}

	return todas, erros, nil
}

// listarDocumentos coleta, em profundidade ilimitada, os arquivos que o
// extrator reconhece.
func (p *Processor) listarDocumentos(inputDir string) ([]string, error) {
	var arquivos []string
	err := filepath.WalkDir(inputDir, func(caminho string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && p.Extrator.Suporta(caminho) {
			arquivos = append(arquivos, caminho)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arquivos, nil
}

func formatoDasPropostas(propostas []extractors.PropostaAdjudicada) string {
	if len(propostas) == 0 {
		return "nenhum"
	}
	return propostas[0].TipoFormato
}
