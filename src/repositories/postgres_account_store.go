package repositories

import (
	"context"
	"fmt"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountStore resolve contas na tabela accounts. O engine só usa
// este repositório para checagem de existência e projeção de contas.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

func (s *PostgresAccountStore) Exists(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("PostgresAccountStore.Exists - query failed: %w", err)
	}

	return exists, nil
}

func (s *PostgresAccountStore) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	query := `SELECT id, type, reference, name, created_at, updated_at FROM accounts WHERE id = $1`

	var account entities.Account
	err := s.pool.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.Type,
		&account.Reference,
		&account.Name,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("PostgresAccountStore.GetByID - id %d: %w", accountID, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("PostgresAccountStore.GetByID - query failed: %w", err)
	}

	return &account, nil
}

func (s *PostgresAccountStore) GetByIDs(ctx context.Context, accountIDs []int64) ([]entities.Account, error) {
	if len(accountIDs) == 0 {
		return []entities.Account{}, nil
	}

	query := `SELECT id, type, reference, name, created_at, updated_at FROM accounts WHERE id = ANY($1) ORDER BY id`

	rows, err := s.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("PostgresAccountStore.GetByIDs - query failed: %w", err)
	}

	defer rows.Close()

	accounts := make([]entities.Account, 0, len(accountIDs))
	for rows.Next() {
		var account entities.Account
		if err := rows.Scan(
			&account.ID,
			&account.Type,
			&account.Reference,
			&account.Name,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("PostgresAccountStore.GetByIDs - failed to scan account: %w", err)
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostgresAccountStore.GetByIDs - error iterating rows: %w", err)
	}

	return accounts, nil
}
