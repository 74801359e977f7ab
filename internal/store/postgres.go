package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one jsonb row per collection, replaced wholesale
// on every save. It exists for cross-device replication; the schema is
// managed by the goose migrations under migrations/.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, c Collection, out any) error {
	query := `SELECT body FROM collections WHERE name = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, string(c)).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return fmt.Errorf("load collection %s: %w", c, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode collection %s: %w", c, err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, c Collection, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c, err)
	}

	query := `
		INSERT INTO collections (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, string(c), raw); err != nil {
		return fmt.Errorf("save collection %s: %w", c, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
