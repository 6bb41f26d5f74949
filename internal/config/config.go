// Package config carrega a configuração do serviço a partir da base de
// dados do serviço (quando já persistida) ou das variáveis de ambiente.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"licitaserver/database"
)

// Config configuração do servidor
type Config struct {
	// Servidor
	Port string `json:"port"`

	// Base de dados
	ServiceDatabasePath string `json:"service_database_path"`

	// Diretórios de trabalho
	OutputDir string `json:"output_dir"`
	SicafDir  string `json:"sicaf_dir"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Logging
	LogLevel string `json:"log_level"`

	// Limite de requisições por cliente
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

// configJSON é a forma serializada persistida em app_config; durações viajam
// como string para sobreviver ao JSON.
type configJSON struct {
	Port                string  `json:"port"`
	ServiceDatabasePath string  `json:"service_database_path"`
	OutputDir           string  `json:"output_dir"`
	SicafDir            string  `json:"sicaf_dir"`
	MaxOpenConns        int     `json:"max_open_conns"`
	MaxIdleConns        int     `json:"max_idle_conns"`
	ConnMaxLifetime     string  `json:"conn_max_lifetime"`
	LogLevel            string  `json:"log_level"`
	RateLimitRPS        float64 `json:"rate_limit_rps"`
	RateLimitBurst      int     `json:"rate_limit_burst"`
}

// LoadConfig carrega a configuração da base do serviço (se serviceDB for
// passado e houver configuração persistida válida) ou das variáveis de
// ambiente.
func LoadConfig(serviceDB ...*database.ServiceDB) (*Config, error) {
	if len(serviceDB) > 0 && serviceDB[0] != nil {
		configJSONStr, err := serviceDB[0].GetAppConfig()
		if err == nil && configJSONStr != "" {
			var cfgJSON configJSON
			if err := json.Unmarshal([]byte(configJSONStr), &cfgJSON); err == nil {
				connMaxLifetime, err := time.ParseDuration(cfgJSON.ConnMaxLifetime)
				if err != nil {
					connMaxLifetime = 5 * time.Minute
				}

				cfg := &Config{
					Port:                cfgJSON.Port,
					ServiceDatabasePath: cfgJSON.ServiceDatabasePath,
					OutputDir:           cfgJSON.OutputDir,
					SicafDir:            cfgJSON.SicafDir,
					MaxOpenConns:        cfgJSON.MaxOpenConns,
					MaxIdleConns:        cfgJSON.MaxIdleConns,
					ConnMaxLifetime:     connMaxLifetime,
					LogLevel:            cfgJSON.LogLevel,
					RateLimitRPS:        cfgJSON.RateLimitRPS,
					RateLimitBurst:      cfgJSON.RateLimitBurst,
				}

				log.Printf("Config loaded from service database")
				if err := cfg.Validate(); err != nil {
					log.Printf("Invalid config from DB, falling back to env: %v", err)
				} else {
					return cfg, nil
				}
			} else {
				log.Printf("Failed to parse config from DB, falling back to env: %v", err)
			}
		}
	}

	cfg := &Config{
		Port:                getEnv("SERVER_PORT", "9999"),
		ServiceDatabasePath: getEnv("SERVICE_DATABASE_PATH", "licitacoes.db"),
		OutputDir:           getEnv("OUTPUT_DIR", "saida"),
		SicafDir:            getEnv("SICAF_DIR", "sicaf"),
		MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime:     getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig persiste a configuração atual na base do serviço.
func SaveConfig(cfg *Config, serviceDB *database.ServiceDB) error {
	cfgJSON := configJSON{
		Port:                cfg.Port,
		ServiceDatabasePath: cfg.ServiceDatabasePath,
		OutputDir:           cfg.OutputDir,
		SicafDir:            cfg.SicafDir,
		MaxOpenConns:        cfg.MaxOpenConns,
		MaxIdleConns:        cfg.MaxIdleConns,
		ConnMaxLifetime:     cfg.ConnMaxLifetime.String(),
		LogLevel:            cfg.LogLevel,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
	}

	data, err := json.Marshal(cfgJSON)
	if err != nil {
		return err
	}

	return serviceDB.SaveAppConfig(string(data))
}

// getEnv lê a variável de ambiente ou devolve o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt lê a variável de ambiente como int ou devolve o valor padrão
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat lê a variável de ambiente como float64 ou devolve o valor padrão
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration lê a variável de ambiente como Duration ou devolve o valor padrão
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
