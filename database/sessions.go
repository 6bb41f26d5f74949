package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"licitaserver/extractors"
	"licitaserver/processing"
)

// Status possíveis de uma sessão de processamento.
const (
	SessaoEmAndamento = "em_andamento"
	SessaoConcluida   = "concluida"
	SessaoFalhou      = "falhou"
)

// Tipos de sessão.
const (
	SessaoLicitacoes = "licitacoes"
	SessaoSicaf      = "sicaf"
)

// ErrSessaoNaoEncontrada indica consulta por uma sessão inexistente.
var ErrSessaoNaoEncontrada = errors.New("sessão de processamento não encontrada")

// SessaoProcessamento é o registro persistido de uma execução em lote.
type SessaoProcessamento struct {
	ID            string     `json:"id"`
	Tipo          string     `json:"tipo"`
	Diretorio     string     `json:"diretorio"`
	TotalArquivos int        `json:"total_arquivos"`
	Processados   int        `json:"processados"`
	Status        string     `json:"status"`
	CriadoEm      time.Time  `json:"criado_em"`
	FinalizadoEm  *time.Time `json:"finalizado_em"`
}

// CriarSessao registra o início de uma execução em lote.
func (db *ServiceDB) CriarSessao(id, tipo, diretorio string, totalArquivos int) error {
	query := `
		INSERT INTO processing_sessions (id, tipo, diretorio, total_arquivos, status)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.conn.Exec(query, id, tipo, diretorio, totalArquivos, SessaoEmAndamento)
	if err != nil {
		return fmt.Errorf("failed to create processing session: %w", err)
	}
	return nil
}

// AtualizarProgressoSessao grava o contador de arquivos já processados e o
// total fixado para o lote. Sessões de licitação nascem com total zero, pois a
// contagem só existe depois de listar o diretório; o total definitivo chega
// pelo primeiro callback de progresso.
func (db *ServiceDB) AtualizarProgressoSessao(id string, processados, totalArquivos int) error {
	query := `UPDATE processing_sessions SET processados = ?, total_arquivos = ? WHERE id = ?`
	_, err := db.conn.Exec(query, processados, totalArquivos, id)
	if err != nil {
		return fmt.Errorf("failed to update session progress: %w", err)
	}
	return nil
}

// FinalizarSessao encerra a sessão com o status final.
func (db *ServiceDB) FinalizarSessao(id, status string) error {
	query := `UPDATE processing_sessions SET status = ?, finalizado_em = ? WHERE id = ?`
	_, err := db.conn.Exec(query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finalize session: %w", err)
	}
	return nil
}

// ObterSessao carrega uma sessão pelo id.
func (db *ServiceDB) ObterSessao(id string) (*SessaoProcessamento, error) {
	query := `
		SELECT id, tipo, diretorio, total_arquivos, processados, status, criado_em, finalizado_em
		FROM processing_sessions WHERE id = ?
	`
	var s SessaoProcessamento
	var finalizadoEm sql.NullTime
	err := db.conn.QueryRow(query, id).Scan(
		&s.ID, &s.Tipo, &s.Diretorio, &s.TotalArquivos, &s.Processados,
		&s.Status, &s.CriadoEm, &finalizadoEm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessaoNaoEncontrada
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if finalizadoEm.Valid {
		s.FinalizadoEm = &finalizadoEm.Time
	}
	return &s, nil
}

// SalvarPropostas persiste o lote de propostas consolidadas de uma sessão em
// uma única transação.
func (db *ServiceDB) SalvarPropostas(sessionID string, propostas []processing.PropostaConsolidada) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO propostas_consolidadas (
			session_id, uasg, pregao, processo, item, grupo, quantidade,
			descricao, valor_estimado, valor_adjudicado, fornecedor, cnpj,
			cnpj_normalizado, marca_fabricante, modelo_versao, responsavel,
			melhor_lance, tipo_formato
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range propostas {
		_, err := stmt.Exec(
			sessionID, p.Uasg, p.Pregao, p.Processo, p.Item, toNullString(p.Grupo),
			p.Quantidade, p.Descricao, p.ValorEstimado, p.ValorAdjudicado,
			p.Fornecedor, p.CNPJ, extractors.NormalizarCNPJ(p.CNPJ),
			p.MarcaFabricante, p.ModeloVersao, p.Responsavel,
			p.MelhorLance, p.TipoFormato,
		)
		if err != nil {
			return fmt.Errorf("failed to insert proposta: %w", err)
		}
	}

	return tx.Commit()
}

// ListarPropostas carrega as propostas de uma sessão na ordem de inserção.
func (db *ServiceDB) ListarPropostas(sessionID string) ([]processing.PropostaConsolidada, error) {
	query := `
		SELECT uasg, pregao, processo, item, grupo, quantidade, descricao,
		       valor_estimado, valor_adjudicado, fornecedor, cnpj,
		       marca_fabricante, modelo_versao, responsavel, melhor_lance, tipo_formato
		FROM propostas_consolidadas
		WHERE session_id = ?
		ORDER BY id
	`
	rows, err := db.conn.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query propostas: %w", err)
	}
	defer rows.Close()

	var propostas []processing.PropostaConsolidada
	for rows.Next() {
		var p processing.PropostaConsolidada
		var grupo, quantidade, descricao, valorEstimado, valorAdjudicado sql.NullString
		var fornecedor, marca, modelo, responsavel, melhorLance, tipoFormato sql.NullString
		err := rows.Scan(
			&p.Uasg, &p.Pregao, &p.Processo, &p.Item, &grupo, &quantidade,
			&descricao, &valorEstimado, &valorAdjudicado, &fornecedor, &p.CNPJ,
			&marca, &modelo, &responsavel, &melhorLance, &tipoFormato,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposta: %w", err)
		}
		p.Grupo = toPtr(grupo)
		p.Quantidade = nullString(quantidade)
		p.Descricao = nullString(descricao)
		p.ValorEstimado = nullString(valorEstimado)
		p.ValorAdjudicado = nullString(valorAdjudicado)
		p.Fornecedor = nullString(fornecedor)
		p.MarcaFabricante = nullString(marca)
		p.ModeloVersao = nullString(modelo)
		p.Responsavel = nullString(responsavel)
		p.MelhorLance = nullString(melhorLance)
		p.TipoFormato = nullString(tipoFormato)
		propostas = append(propostas, p)
	}
	return propostas, rows.Err()
}

// SalvarRegistrosSicaf persiste os registros SICAF de uma sessão.
func (db *ServiceDB) SalvarRegistrosSicaf(sessionID string, registros []extractors.DadosSicaf) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO registros_sicaf (
			session_id, cnpj, cnpj_normalizado, duns, empresa, nome_fantasia,
			situacao_cadastro, data_vencimento, cep, endereco, municipio, uf,
			telefone, email, cpf_responsavel, nome_responsavel
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range registros {
		_, err := stmt.Exec(
			sessionID, r.CNPJ, extractors.NormalizarCNPJ(r.CNPJ),
			toNullString(r.DUNS), r.Empresa, toNullString(r.NomeFantasia),
			toNullString(r.SituacaoCadastro), toNullString(r.DataVencimento),
			toNullString(r.CEP), toNullString(r.Endereco),
			toNullString(r.Municipio), toNullString(r.UF),
			toNullString(r.Telefone), toNullString(r.Email),
			toNullString(r.CPFResponsavel), toNullString(r.NomeResponsavel),
		)
		if err != nil {
			return fmt.Errorf("failed to insert registro SICAF: %w", err)
		}
	}

	return tx.Commit()
}

// ListarRegistrosSicaf carrega os registros SICAF de uma sessão na ordem de
// inserção.
func (db *ServiceDB) ListarRegistrosSicaf(sessionID string) ([]extractors.DadosSicaf, error) {
	query := `
		SELECT cnpj, duns, empresa, nome_fantasia, situacao_cadastro,
		       data_vencimento, cep, endereco, municipio, uf, telefone, email,
		       cpf_responsavel, nome_responsavel
		FROM registros_sicaf
		WHERE session_id = ?
		ORDER BY id
	`
	rows, err := db.conn.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registros SICAF: %w", err)
	}
	defer rows.Close()

	var registros []extractors.DadosSicaf
	for rows.Next() {
		var r extractors.DadosSicaf
		var duns, nomeFantasia, situacao, vencimento, cep, endereco sql.NullString
		var municipio, uf, telefone, email, cpfResp, nomeResp sql.NullString
		err := rows.Scan(
			&r.CNPJ, &duns, &r.Empresa, &nomeFantasia, &situacao, &vencimento,
			&cep, &endereco, &municipio, &uf, &telefone, &email, &cpfResp, &nomeResp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registro SICAF: %w", err)
		}
		r.DUNS = toPtr(duns)
		r.NomeFantasia = toPtr(nomeFantasia)
		r.SituacaoCadastro = toPtr(situacao)
		r.DataVencimento = toPtr(vencimento)
		r.CEP = toPtr(cep)
		r.Endereco = toPtr(endereco)
		r.Municipio = toPtr(municipio)
		r.UF = toPtr(uf)
		r.Telefone = toPtr(telefone)
		r.Email = toPtr(email)
		r.CPFResponsavel = toPtr(cpfResp)
		r.NomeResponsavel = toPtr(nomeResp)
		registros = append(registros, r)
	}
	return registros, rows.Err()
}
