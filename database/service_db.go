// Package database guarda o estado persistente do serviço em SQLite:
// sessões de processamento, propostas consolidadas, registros SICAF e a
// configuração da aplicação.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig configuração do pool de conexões
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ServiceDB encapsula a conexão com a base de dados do serviço
type ServiceDB struct {
	conn *sql.DB
}

func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NewServiceDB abre a base de dados do serviço com o pool padrão
func NewServiceDB(dbPath string) (*ServiceDB, error) {
	config := DBConfig{}

	// SQLite em memória exige exatamente uma conexão: cada conexão nova
	// enxergaria uma base vazia, sem tabelas nem migrações.
	if isInMemoryDB(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewServiceDBWithConfig(dbPath, config)
}

// isInMemoryDB identifica caminhos de SQLite em memória
func isInMemoryDB(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	if strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory") {
		return true
	}
	return false
}

// NewServiceDBWithConfig abre a base de dados do serviço com pool explícito
func NewServiceDBWithConfig(dbPath string, config DBConfig) (*ServiceDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open service database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		// SQLite lida mal com muitas conexões simultâneas
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping service database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// WAL permite leitores simultâneos sem bloqueio de escrita
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Printf("[ServiceDB] Warning: Failed to enable WAL mode: %v", err)
	}

	db := &ServiceDB{conn: conn}

	if err := InitServiceSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize service schema: %w", err)
	}

	return db, nil
}

// Close fecha a conexão com a base de dados
func (db *ServiceDB) Close() error {
	return db.conn.Close()
}

// Ping verifica a conexão com a base de dados
func (db *ServiceDB) Ping() error {
	return db.conn.Ping()
}

// GetDB devolve o *sql.DB subjacente para acesso direto
func (db *ServiceDB) GetDB() *sql.DB {
	return db.conn
}
