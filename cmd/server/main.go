// @title LicitaServer API
// @version 1.0
// @description API para extração de propostas adjudicadas de atas de licitação e cruzamento com o registro de fornecedores SICAF.

// @contact.name API Support
// @contact.email suporte@example.com

// @license.name Internal Use Only

// @host localhost:9999
// @BasePath /api
// @schemes http https

package main

import (
	"log"

	"licitaserver/database"
	"licitaserver/internal/config"
	"licitaserver/server"
)

func main() {
	log.Println("Iniciando LicitaServer...")

	// Configuração base do ambiente (caminho da base do serviço)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Erro ao carregar a configuração: %v", err)
	}

	dbConfig := database.DBConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	serviceDB, err := database.NewServiceDBWithConfig(cfg.ServiceDatabasePath, dbConfig)
	if err != nil {
		log.Fatalf("Erro ao abrir a base do serviço: %v", err)
	}
	defer serviceDB.Close()
	log.Printf("Base do serviço: %s", cfg.ServiceDatabasePath)

	// Recarrega a configuração persistida, se houver
	cfg, err = config.LoadConfig(serviceDB)
	if err != nil {
		log.Fatalf("Erro ao carregar a configuração da base: %v", err)
	}

	// Primeira execução: persiste a configuração do ambiente
	if configJSON, _ := serviceDB.GetAppConfig(); configJSON == "" {
		log.Printf("Configuração ausente na base, persistindo a configuração do ambiente")
		if err := config.SaveConfig(cfg, serviceDB); err != nil {
			log.Printf("Aviso: falha ao persistir a configuração: %v", err)
		}
	}

	srv := server.NewServer(cfg, serviceDB)

	log.Printf("API disponível em http://localhost:%s", cfg.Port)
	log.Printf("Swagger UI em http://localhost:%s/swagger/index.html", cfg.Port)

	if err := srv.Start(); err != nil {
		log.Fatalf("Erro ao executar o servidor: %v", err)
	}
}
