package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// InitServiceSchema cria as tabelas do serviço quando ainda não existem e
// aplica as migrações pendentes.
func InitServiceSchema(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS processing_sessions (
			id TEXT PRIMARY KEY,
			tipo TEXT NOT NULL,
			diretorio TEXT NOT NULL,
			total_arquivos INTEGER NOT NULL DEFAULT 0,
			processados INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'em_andamento',
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finalizado_em TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS propostas_consolidadas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			uasg TEXT NOT NULL,
			pregao TEXT NOT NULL,
			processo TEXT NOT NULL,
			item TEXT NOT NULL,
			grupo TEXT,
			quantidade TEXT,
			descricao TEXT,
			valor_estimado TEXT,
			valor_adjudicado TEXT,
			fornecedor TEXT,
			cnpj TEXT NOT NULL,
			marca_fabricante TEXT,
			modelo_versao TEXT,
			responsavel TEXT,
			melhor_lance TEXT,
			tipo_formato TEXT,
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES processing_sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS registros_sicaf (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			cnpj TEXT NOT NULL,
			duns TEXT,
			empresa TEXT NOT NULL,
			nome_fantasia TEXT,
			situacao_cadastro TEXT,
			data_vencimento TEXT,
			cep TEXT,
			endereco TEXT,
			municipio TEXT,
			uf TEXT,
			telefone TEXT,
			email TEXT,
			cpf_responsavel TEXT,
			nome_responsavel TEXT,
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES processing_sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS app_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			config_json TEXT NOT NULL,
			version INTEGER DEFAULT 1,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_propostas_session ON propostas_consolidadas(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_propostas_cnpj ON propostas_consolidadas(cnpj)`,
		`CREATE INDEX IF NOT EXISTS idx_sicaf_session ON registros_sicaf(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sicaf_cnpj ON registros_sicaf(cnpj)`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return ensureMigrationApplied(db, "propostas_cnpj_normalizado", migratePropostasCnpjNormalizado)
}

// migratePropostasCnpjNormalizado adiciona a coluna com o CNPJ só-dígitos,
// usada pelas consultas de cruzamento com o SICAF.
func migratePropostasCnpjNormalizado(db *sql.DB) error {
	migrations := []string{
		`ALTER TABLE propostas_consolidadas ADD COLUMN cnpj_normalizado TEXT`,
		`ALTER TABLE registros_sicaf ADD COLUMN cnpj_normalizado TEXT`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "duplicate column") || strings.Contains(errStr, "already exists") {
				continue
			}
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}

	return nil
}
