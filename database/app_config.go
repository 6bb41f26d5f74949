package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrConfigNaoEncontrada indica que nenhuma configuração foi persistida ainda.
var ErrConfigNaoEncontrada = errors.New("configuração da aplicação não encontrada")

// GetAppConfig devolve o JSON da configuração persistida.
func (db *ServiceDB) GetAppConfig() (string, error) {
	var configJSON string
	err := db.conn.QueryRow(`SELECT config_json FROM app_config WHERE id = 1`).Scan(&configJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrConfigNaoEncontrada
		}
		return "", fmt.Errorf("failed to load app config: %w", err)
	}
	return configJSON, nil
}

// GetAppConfigVersion devolve a versão atual da configuração, 0 quando nada
// foi persistido.
func (db *ServiceDB) GetAppConfigVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT COALESCE(version, 1) FROM app_config WHERE id = 1`).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load app config version: %w", err)
	}
	return version, nil
}

// SaveAppConfig grava o JSON da configuração, incrementando a versão.
func (db *ServiceDB) SaveAppConfig(configJSON string) error {
	version, err := db.GetAppConfigVersion()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO app_config (id, config_json, version, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			version = excluded.version,
			updated_at = excluded.updated_at
	`
	_, err = db.conn.Exec(query, configJSON, version+1, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save app config: %w", err)
	}
	return nil
}
