package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtc-jordan/tazweed-wps/internal/apperrors"
	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
	portsrepo "github.com/mtc-jordan/tazweed-wps/internal/core/ports/repositories"
	"github.com/mtc-jordan/tazweed-wps/internal/models"
	"github.com/mtc-jordan/tazweed-wps/internal/utils/mapping"
)

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for the bank registry.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

const bankColumns = `bank_id, name, code, routing_code,
	COALESCE(swift_code, ''), COALESCE(short_name, ''), bank_type, active, wps_enabled,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBank(row pgx.Row) (*models.Bank, error) {
	var m models.Bank
	err := row.Scan(
		&m.BankID, &m.Name, &m.Code, &m.RoutingCode,
		&m.SwiftCode, &m.ShortName, &m.Type, &m.Active, &m.WPSEnabled,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxBankRepository) FindBankByID(ctx context.Context, bankID string) (*domain.Bank, error) {
	query := `SELECT ` + bankColumns + ` FROM banks WHERE bank_id = $1`
	m, err := scanBank(r.Pool.QueryRow(ctx, query, bankID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank %s", apperrors.ErrNotFound, bankID)
		}
		return nil, fmt.Errorf("failed to find bank %s: %w", bankID, err)
	}
	bank := mapping.ToDomainBank(*m)
	return &bank, nil
}

func (r *PgxBankRepository) FindBankByRoutingCode(ctx context.Context, routingCode string) (*domain.Bank, error) {
	query := `SELECT ` + bankColumns + ` FROM banks WHERE routing_code = $1`
	m, err := scanBank(r.Pool.QueryRow(ctx, query, routingCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank with routing code %s", apperrors.ErrNotFound, routingCode)
		}
		return nil, fmt.Errorf("failed to find bank by routing code %s: %w", routingCode, err)
	}
	bank := mapping.ToDomainBank(*m)
	return &bank, nil
}

func (r *PgxBankRepository) ListBanks(ctx context.Context, wpsOnly bool) ([]domain.Bank, error) {
	query := `SELECT ` + bankColumns + ` FROM banks WHERE active AND ($1 = false OR wps_enabled) ORDER BY code`
	rows, err := r.Pool.Query(ctx, query, wpsOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	var banks []domain.Bank
	for rows.Next() {
		m, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, mapping.ToDomainBank(*m))
	}
	return banks, rows.Err()
}

func (r *PgxBankRepository) SaveBank(ctx context.Context, bank domain.Bank) error {
	m := mapping.ToModelBank(bank)
	query := `
		INSERT INTO banks (bank_id, name, code, routing_code, swift_code, short_name,
			bank_type, active, wps_enabled, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankID, m.Name, m.Code, m.RoutingCode, m.SwiftCode, m.ShortName,
		m.Type, m.Active, m.WPSEnabled, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bank code %s or routing code %s already registered",
				apperrors.ErrDuplicate, m.Code, m.RoutingCode)
		}
		return fmt.Errorf("failed to save bank %s: %w", m.Code, err)
	}
	return nil
}

func (r *PgxBankRepository) UpdateBank(ctx context.Context, bank domain.Bank) error {
	m := mapping.ToModelBank(bank)
	query := `
		UPDATE banks
		SET name = $1, swift_code = NULLIF($2, ''), short_name = NULLIF($3, ''),
			bank_type = $4, active = $5, wps_enabled = $6, last_updated_at = $7, last_updated_by = $8
		WHERE bank_id = $9;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Name, m.SwiftCode, m.ShortName,
		m.Type, m.Active, m.WPSEnabled, m.LastUpdatedAt, m.LastUpdatedBy, m.BankID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank %s: %w", m.BankID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank %s", apperrors.ErrNotFound, m.BankID)
	}
	return nil
}

type PgxConnectionRepository struct {
	BaseRepository
}

// newPgxConnectionRepository creates a new repository for bank connections.
func newPgxConnectionRepository(pool *pgxpool.Pool) portsrepo.ConnectionRepositoryFacade {
	return &PgxConnectionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ConnectionRepositoryFacade = (*PgxConnectionRepository)(nil)

const connectionColumns = `connection_id, name, bank_id, protocol, COALESCE(endpoint, ''),
	employer_id, routing_code, credentials, state,
	last_test_at, last_test_ok, COALESCE(last_test_message, ''),
	created_at, created_by, last_updated_at, last_updated_by`

func scanConnection(row pgx.Row) (*models.BankConnection, error) {
	var m models.BankConnection
	err := row.Scan(
		&m.ConnectionID, &m.Name, &m.BankID, &m.Protocol, &m.Endpoint,
		&m.EmployerID, &m.RoutingCode, &m.Credentials, &m.State,
		&m.LastTestAt, &m.LastTestOK, &m.LastTestMessage,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxConnectionRepository) FindConnectionByID(ctx context.Context, connectionID string) (*domain.BankConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM bank_connections WHERE connection_id = $1`
	m, err := scanConnection(r.Pool.QueryRow(ctx, query, connectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: connection %s", apperrors.ErrNotFound, connectionID)
		}
		return nil, fmt.Errorf("failed to find connection %s: %w", connectionID, err)
	}
	conn, err := mapping.ToDomainConnection(*m)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *PgxConnectionRepository) ListConnections(ctx context.Context) ([]domain.BankConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM bank_connections ORDER BY name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []domain.BankConnection
	for rows.Next() {
		m, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conn, err := mapping.ToDomainConnection(*m)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func (r *PgxConnectionRepository) SaveConnection(ctx context.Context, conn domain.BankConnection) error {
	m, err := mapping.ToModelConnection(conn)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bank_connections (connection_id, name, bank_id, protocol, endpoint,
			employer_id, routing_code, credentials, state,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.ConnectionID, m.Name, m.BankID, m.Protocol, m.Endpoint,
		m.EmployerID, m.RoutingCode, m.Credentials, m.State,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: connection %s already exists", apperrors.ErrDuplicate, m.ConnectionID)
		}
		return fmt.Errorf("failed to save connection %s: %w", m.ConnectionID, err)
	}
	return nil
}

func (r *PgxConnectionRepository) UpdateConnection(ctx context.Context, conn domain.BankConnection) error {
	m, err := mapping.ToModelConnection(conn)
	if err != nil {
		return err
	}
	query := `
		UPDATE bank_connections
		SET name = $1, endpoint = NULLIF($2, ''), credentials = $3, state = $4,
			last_test_at = $5, last_test_ok = $6, last_test_message = NULLIF($7, ''),
			last_updated_at = $8, last_updated_by = $9
		WHERE connection_id = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Endpoint, m.Credentials, m.State,
		m.LastTestAt, m.LastTestOK, m.LastTestMessage,
		m.LastUpdatedAt, m.LastUpdatedBy, m.ConnectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update connection %s: %w", m.ConnectionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: connection %s", apperrors.ErrNotFound, m.ConnectionID)
	}
	return nil
}

func (r *PgxConnectionRepository) UpdateConnectionState(ctx context.Context, connectionID string, state domain.ConnectionState, actor string) error {
	query := `UPDATE bank_connections SET state = $1, last_updated_at = $2, last_updated_by = $3 WHERE connection_id = $4`
	tag, err := r.Pool.Exec(ctx, query, string(state), time.Now().UTC(), actor, connectionID)
	if err != nil {
		return fmt.Errorf("failed to update state of connection %s: %w", connectionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: connection %s", apperrors.ErrNotFound, connectionID)
	}
	return nil
}
