package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"licitaserver/consolidation"
	"licitaserver/processing"
	"licitaserver/server"
)

func main() {
	inputDir := flag.String("input", "documentos", "Diretório com as atas de licitação")
	outputDir := flag.String("output", "saida", "Diretório de saída dos relatórios")
	exportar := flag.String("exportar", "", "Exporta as propostas no formato informado (csv ou excel)")
	arquivoExport := flag.String("arquivo-export", "", "Caminho do arquivo de exportação")
	flag.Parse()

	inicio := time.Now()

	processor := processing.NovoProcessor(server.Logger)

	progresso := func(processados, total int, arquivoAtual *string) {
		if arquivoAtual != nil {
			log.Printf("[%d/%d] processando %s", processados+1, total, *arquivoAtual)
		}
	}

	propostas, erros, err := processor.ProcessarDiretorio(*inputDir, *outputDir, progresso)
	if err != nil {
		log.Fatalf("falha ao processar %s: %v", *inputDir, err)
	}

	resumo, err := consolidation.SalvarJSONConsolidado(propostas, *outputDir)
	if err != nil {
		log.Fatalf("falha ao gravar o consolidado: %v", err)
	}

	if *exportar != "" {
		caminho := *arquivoExport
		if caminho == "" {
			log.Fatal("-arquivo-export é obrigatório quando -exportar é informado")
		}
		formato := consolidation.FormatoExportacao(*exportar)
		if err := consolidation.Exportar(propostas, formato, caminho); err != nil {
			log.Fatalf("falha ao exportar: %v", err)
		}
		log.Printf("exportado para %s", caminho)
	}

	fmt.Println("\n--- Processamento de Licitações ---")
	fmt.Printf("Licitações: %d\n", resumo.TotalLicitacoes)
	fmt.Printf("Propostas: %d\n", resumo.TotalPropostas)
	fmt.Printf("Valor total geral: %.2f\n", resumo.ValorTotalGeral)
	fmt.Printf("Arquivos gerados: %d\n", len(resumo.ArquivosGerados))
	if len(erros) > 0 {
		fmt.Printf("Documentos com erro: %d\n", len(erros))
		for _, e := range erros {
			fmt.Printf(" - %s\n", e)
		}
	}
	fmt.Printf("Duração: %s\n", time.Since(inicio).Round(time.Millisecond))
}
