package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dossier/internal/rules/models"
	"dossier/pkg/platform/sentinel"
)

// PostgresStore reads rules from the rules table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, key models.Key) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM rules WHERE country = $1 AND pmd = $2 AND parameter = $3`,
		key.Country.String(), key.Pmd.String(), key.Parameter.String(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find rule %s: %w", key, err)
	}
	return value, nil
}

// Upsert bulk loads rules through COPY into a temporary table and merges
// them in one transaction.
func (s *PostgresStore) Upsert(ctx context.Context, rules []models.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rules upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`CREATE TEMP TABLE rules_import (LIKE rules INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("create rules_import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("rules_import", "country", "pmd", "parameter", "value"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for _, r := range rules {
		if _, err := stmt.ExecContext(ctx, r.Country.String(), r.Pmd.String(), r.Parameter.String(), r.Value); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy rule %s: %w", r.Key, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rules (country, pmd, parameter, value)
		SELECT country, pmd, parameter, value FROM rules_import
		ON CONFLICT (country, pmd, parameter) DO UPDATE SET value = EXCLUDED.value`); err != nil {
		return fmt.Errorf("merge rules: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rules upsert: %w", err)
	}
	return nil
}
