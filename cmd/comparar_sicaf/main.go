package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"licitaserver/consolidation"
	"licitaserver/extractors"
	"licitaserver/server"
	"licitaserver/sicaf"
)

func main() {
	sicafDir := flag.String("sicaf", "sicaf", "Diretório com os certificados SICAF")
	sicafJSON := flag.String("sicaf-json", "", "Caminho de um sicaf_dados.json já gravado (dispensa reprocessar os certificados)")
	consolidado := flag.String("consolidado", "", "Caminho de um licitacao_*.json gravado pelo consolidado")
	outputDir := flag.String("output", "saida", "Diretório de saída dos relatórios")
	flag.Parse()

	if *consolidado == "" {
		log.Fatal("-consolidado é obrigatório")
	}

	inicio := time.Now()

	var registros []extractors.DadosSicaf
	if *sicafJSON != "" {
		var err error
		registros, err = sicaf.CarregarJSON(*sicafJSON)
		if err != nil {
			log.Fatalf("falha ao carregar %s: %v", *sicafJSON, err)
		}
	} else {
		processor := sicaf.NovoProcessor(server.Logger)
		resultado, err := processor.ProcessarDiretorio(*sicafDir)
		if err != nil {
			log.Fatalf("falha ao processar certificados: %v", err)
		}
		registros = resultado.DadosSicaf

		if len(registros) > 0 {
			if err := sicaf.SalvarJSON(registros, *outputDir); err != nil {
				log.Fatalf("falha ao gravar sicaf_dados.json: %v", err)
			}
		}
	}

	propostas, err := consolidation.CarregarJSONConsolidado(*consolidado)
	if err != nil {
		log.Fatalf("falha ao carregar o consolidado: %v", err)
	}

	matcher := sicaf.NovoMatcher(registros)
	relatorio := matcher.Comparar(propostas)

	if err := sicaf.SalvarRelatorio(relatorio, *outputDir); err != nil {
		log.Fatalf("falha ao gravar o relatório de comparação: %v", err)
	}

	fmt.Println("\n--- Comparação SICAF ---")
	fmt.Printf("Registros SICAF: %d\n", len(registros))
	fmt.Printf("Propostas cruzadas: %d\n", relatorio.TotalPropostas)
	fmt.Printf("Encontrados no SICAF: %d\n", relatorio.SicafEncontrados)
	fmt.Printf("Não encontrados: %d\n", relatorio.SicafNaoEncontrados)
	fmt.Printf("Duração: %s\n", time.Since(inicio).Round(time.Millisecond))
}
