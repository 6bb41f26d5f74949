// Package sicaf processa certificados do registro de fornecedores (SICAF) e
// cruza os registros extraídos com as propostas adjudicadas das licitações.
package sicaf

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"licitaserver/extractors"
	"licitaserver/textextract"
)

const layoutDataGeracao = "2006-01-02 15:04:05 UTC"

var agora = func() time.Time { return time.Now().UTC() }

// ResultadoProcessamento é o payload do processamento de um diretório de
// certificados.
type ResultadoProcessamento struct {
	Success        bool                    `json:"success"`
	Message        string                  `json:"message"`
	ProcessedCount int                     `json:"processed_count"`
	DadosSicaf     []extractors.DadosSicaf `json:"sicaf_data"`
	SessionID      *string                 `json:"session_id"`
}

// dadosJSON é a unidade serializada do registro; os nomes dos campos fazem
// parte do contrato consumido pela camada de aplicação.
type dadosJSON struct {
	DataGeracao    string                  `json:"data_geracao"`
	TotalRegistros int                     `json:"total_registros"`
	RegistrosSicaf []extractors.DadosSicaf `json:"registros_sicaf"`
}

// Processor aplica a extração de registros SICAF a diretórios de
// certificados.
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

// ProcessarDiretorio extrai um registro por certificado encontrado em
// sicafDir (recursivo). Certificado sem as âncoras esperadas é registrado e
// pulado, pois não é um documento SICAF. Registros duplicados entre documentos
// NÃO são deduplicados: dois certificados com o mesmo CNPJ geram duas
// entradas na sequência de saída.
func (p *Processor) ProcessarDiretorio(sicafDir string) (*ResultadoProcessamento, error) {
	if _, err := os.Stat(sicafDir); err != nil {
		return nil, fmt.Errorf("diretório SICAF não encontrado: %w", err)
	}

	var arquivos []string
	err := filepath.WalkDir(sicafDir, func(caminho string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && p.Extrator.Suporta(caminho) {
			arquivos = append(arquivos, caminho)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar certificados: %w", err)
	}

	if len(arquivos) == 0 {
		return &ResultadoProcessamento{
			Success: true,
			Message: "Nenhum arquivo encontrado na pasta SICAF",
		}, nil
	}

	var registros []extractors.DadosSicaf
	processados := 0

	for _, arquivo := range arquivos {
		texto, err := p.Extrator.ExtrairTexto(arquivo)
		if err != nil {
			p.Logger.Error("falha ao processar certificado, pulando",
				"arquivo", arquivo, "error", err)
			continue
		}

		dados := extractors.ExtrairDadosSicaf(texto)
		if dados == nil {
			p.Logger.Warn("dados SICAF não encontrados no documento", "arquivo", arquivo)
			continue
		}

		p.Logger.Info("registro SICAF extraído",
			"arquivo", arquivo, "cnpj", dados.CNPJ, "empresa", dados.Empresa)

		registros = append(registros, *dados)
		processados++
	}

	sessionID := "sicaf_" + uuid.NewString()
	return &ResultadoProcessamento{
		Success:        true,
		Message:        fmt.Sprintf("Processamento concluído: %d arquivos processados", processados),
		ProcessedCount: processados,
		DadosSicaf:     registros,
		SessionID:      &sessionID,
	}, nil
}

// SalvarJSON grava os registros em sicaf_dados.json dentro de outputDir.
func SalvarJSON(registros []extractors.DadosSicaf, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	unidade := dadosJSON{
		DataGeracao:    agora().Format(layoutDataGeracao),
		TotalRegistros: len(registros),
		RegistrosSicaf: registros,
	}

	conteudo, err := json.MarshalIndent(unidade, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar dados SICAF: %w", err)
	}

	caminho := filepath.Join(outputDir, "sicaf_dados.json")
	if err := os.WriteFile(caminho, conteudo, 0o644); err != nil {
		return fmt.Errorf("erro ao salvar arquivo JSON SICAF: %w", err)
	}

	return nil
}

// CarregarJSON lê de volta os registros de um sicaf_dados.json gravado
// anteriormente.
func CarregarJSON(caminho string) ([]extractors.DadosSicaf, error) {
	conteudo, err := os.ReadFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo JSON SICAF: %w", err)
	}

	var unidade dadosJSON
	if err := json.Unmarshal(conteudo, &unidade); err != nil {
		return nil, fmt.Errorf("erro ao parsear JSON SICAF: %w", err)
	}

	return unidade.RegistrosSicaf, nil
}
