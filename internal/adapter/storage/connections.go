package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RayL2590/paymybuddy/internal/core/domain"
)

// ConnectionRepository stores the may-pay graph. A mutual connection is two
// directed rows written in one transaction, so the symmetric lookup stays a
// single indexed predicate.
type ConnectionRepository struct {
	db *pgxpool.Pool
}

func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Exists checks both directions; a lone edge would itself be a bug, but the
// check must not depend on which row it scans first.
func (r *ConnectionRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM connections
			WHERE (owner_id = $1 AND peer_id = $2)
			   OR (owner_id = $2 AND peer_id = $1)
		)`, a, b).Scan(&exists)
	return exists, err
}

// CreatePair inserts the edge and its mirror atomically. The composite
// primary key rejects duplicates if a concurrent Connect won the race.
func (r *ConnectionRepository) CreatePair(ctx context.Context, a, b uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO connections (owner_id, peer_id) VALUES ($1, $2)`, a, b); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO connections (owner_id, peer_id) VALUES ($1, $2)`, b, a); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ConnectionRepository) ListPeers(ctx context.Context, owner uuid.UUID) ([]domain.Relation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.peer_id, a.handle
		FROM connections c
		JOIN accounts a ON a.id = c.peer_id
		WHERE c.owner_id = $1
		ORDER BY a.handle`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []domain.Relation
	for rows.Next() {
		var rel domain.Relation
		if err := rows.Scan(&rel.PeerID, &rel.Handle); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}
