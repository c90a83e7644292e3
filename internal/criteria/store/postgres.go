package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
	"dossier/pkg/platform/sentinel"
)

// body is the jsonb column. Cpid and ocid live in their own columns.
type body struct {
	AwardCriteria        domain.AwardCriteria        `json:"awardCriteria"`
	AwardCriteriaDetails domain.AwardCriteriaDetails `json:"awardCriteriaDetails"`
	Criteria             []models.Criterion          `json:"criteria,omitempty"`
	Conversions          []models.Conversion         `json:"conversions,omitempty"`
}

// PostgresStore keeps criteria documents as jsonb through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Find(ctx context.Context, cpid domain.Cpid) (*models.Document, error) {
	var (
		ocidRaw string
		raw     []byte
	)
	err := s.pool.QueryRow(ctx, `SELECT ocid, document FROM criteria WHERE cpid = $1`, cpid.String()).Scan(&ocidRaw, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find criteria: %w", err)
	}
	return toDocument(cpid, ocidRaw, raw)
}

func toDocument(cpid domain.Cpid, ocidRaw string, raw []byte) (*models.Document, error) {
	ocid, fail, ok := domain.ParseOcid(ocidRaw).Unwrap()
	if !ok {
		return nil, dErrors.DatabaseParsing("ocid", ocidRaw, fail)
	}
	var b body
	if err := jsonx.DecodeStrict(raw, &b); err != nil {
		return nil, dErrors.Deserialization("criteria", err)
	}
	return &models.Document{
		Cpid:                 cpid,
		Ocid:                 ocid,
		AwardCriteria:        b.AwardCriteria,
		AwardCriteriaDetails: b.AwardCriteriaDetails,
		Criteria:             b.Criteria,
		Conversions:          b.Conversions,
	}, nil
}

// Save inserts the document unless one already exists for the cpid.
func (s *PostgresStore) Save(ctx context.Context, doc models.Document) (bool, error) {
	raw, err := jsonx.Marshal(body{
		AwardCriteria:        doc.AwardCriteria,
		AwardCriteriaDetails: doc.AwardCriteriaDetails,
		Criteria:             doc.Criteria,
		Conversions:          doc.Conversions,
	})
	if err != nil {
		return false, dErrors.Serialization("criteria", err)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO criteria (cpid, ocid, document) VALUES ($1, $2, $3) ON CONFLICT (cpid) DO NOTHING`,
		doc.Cpid.String(), doc.Ocid.String(), raw)
	if err != nil {
		return false, fmt.Errorf("save criteria: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
