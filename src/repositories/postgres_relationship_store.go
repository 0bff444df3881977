package repositories

import (
	"context"
	"fmt"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
	"accountgraph/src/infra/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRelationshipStore persiste as arestas na tabela account_relationships,
// com unique constraint em (parent_id, child_id) garantindo a unicidade do par
// também no nível do banco.
type PostgresRelationshipStore struct {
	pool *pgxpool.Pool
}

func NewPostgresRelationshipStore(pool *pgxpool.Pool) *PostgresRelationshipStore {
	return &PostgresRelationshipStore{pool: pool}
}

const relationshipColumns = `id, parent_id, child_id, relationship_type, created_by, created_at, updated_by, updated_at`

func (s *PostgresRelationshipStore) AddEdge(ctx context.Context, parentID, childID int64, relType entities.RelationshipType, actorID string) (*entities.Relationship, error) {
	query := `
		INSERT INTO account_relationships (parent_id, child_id, relationship_type, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING ` + relationshipColumns

	var edge entities.Relationship
	err := s.pool.QueryRow(ctx, query, parentID, childID, relType, actorID).Scan(
		&edge.ID,
		&edge.ParentAccountID,
		&edge.ChildAccountID,
		&edge.Type,
		&edge.CreatedBy,
		&edge.CreatedAt,
		&edge.UpdatedBy,
		&edge.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("PostgresRelationshipStore.AddEdge - pair (%d, %d): %w", parentID, childID, domain.ErrDuplicateRelationship)
		}
		return nil, fmt.Errorf("PostgresRelationshipStore.AddEdge - insert failed: %w", err)
	}

	return &edge, nil
}

func (s *PostgresRelationshipStore) GetEdge(ctx context.Context, relationshipID int64) (*entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM account_relationships WHERE id = $1`

	var edge entities.Relationship
	err := s.pool.QueryRow(ctx, query, relationshipID).Scan(
		&edge.ID,
		&edge.ParentAccountID,
		&edge.ChildAccountID,
		&edge.Type,
		&edge.CreatedBy,
		&edge.CreatedAt,
		&edge.UpdatedBy,
		&edge.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("PostgresRelationshipStore.GetEdge - id %d: %w", relationshipID, domain.ErrRelationshipNotFound)
		}
		return nil, fmt.Errorf("PostgresRelationshipStore.GetEdge - query failed: %w", err)
	}

	return &edge, nil
}

func (s *PostgresRelationshipStore) RemoveEdge(ctx context.Context, relationshipID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM account_relationships WHERE id = $1`, relationshipID)
	if err != nil {
		return fmt.Errorf("PostgresRelationshipStore.RemoveEdge - delete failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("PostgresRelationshipStore.RemoveEdge - id %d: %w", relationshipID, domain.ErrRelationshipNotFound)
	}

	return nil
}

func (s *PostgresRelationshipStore) EdgesWhereParent(ctx context.Context, accountID int64) ([]entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM account_relationships WHERE parent_id = $1 ORDER BY id`
	return s.queryEdges(ctx, query, accountID)
}

func (s *PostgresRelationshipStore) EdgesWhereChild(ctx context.Context, accountID int64) ([]entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM account_relationships WHERE child_id = $1 ORDER BY id`
	return s.queryEdges(ctx, query, accountID)
}

func (s *PostgresRelationshipStore) RemoveAllEdgesTouching(ctx context.Context, accountID int64) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM account_relationships WHERE parent_id = $1 OR child_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("PostgresRelationshipStore.RemoveAllEdgesTouching - delete failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (s *PostgresRelationshipStore) queryEdges(ctx context.Context, query string, accountID int64) ([]entities.Relationship, error) {
	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("PostgresRelationshipStore.queryEdges - query failed: %w", err)
	}

	defer rows.Close()

	edges := make([]entities.Relationship, 0)
	for rows.Next() {
		var edge entities.Relationship
		if err := rows.Scan(
			&edge.ID,
			&edge.ParentAccountID,
			&edge.ChildAccountID,
			&edge.Type,
			&edge.CreatedBy,
			&edge.CreatedAt,
			&edge.UpdatedBy,
			&edge.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("PostgresRelationshipStore.queryEdges - failed to scan edge: %w", err)
		}

		edges = append(edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostgresRelationshipStore.queryEdges - error iterating rows: %w", err)
	}

	return edges, nil
}
