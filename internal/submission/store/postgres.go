package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"dossier/internal/submission/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/jsonx"
	"dossier/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

type submissionRow struct {
	ID         uuid.UUID      `db:"id"`
	Cpid       string         `db:"cpid"`
	Ocid       string         `db:"ocid"`
	Owner      uuid.UUID      `db:"owner"`
	Token      uuid.UUID      `db:"token"`
	Status     string         `db:"status"`
	Candidates pq.StringArray `db:"candidates"`
	Date       time.Time      `db:"date"`
	Document   []byte         `db:"document"`
}

// document is the jsonb column: the parts of a submission nobody queries by.
type document struct {
	Candidates           []models.Candidate           `json:"candidates"`
	Documents            []models.Document            `json:"documents,omitempty"`
	RequirementResponses []models.RequirementResponse `json:"requirementResponses,omitempty"`
}

// PostgresStore persists submissions in PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, submission models.Submission) error {
	doc, err := jsonx.Marshal(document{
		Candidates:           submission.Candidates,
		Documents:            submission.Documents,
		RequirementResponses: submission.RequirementResponses,
	})
	if err != nil {
		return dErrors.Serialization("submission", err)
	}
	ids := make([]string, len(submission.Candidates))
	for i, c := range submission.Candidates {
		ids[i] = c.ID.String()
	}

	query := `
		INSERT INTO submissions (id, cpid, ocid, owner, token, status, candidates, date, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(submission.ID),
		submission.Cpid.String(),
		submission.Ocid.String(),
		uuid.UUID(submission.Owner),
		uuid.UUID(submission.Token),
		submission.Status.String(),
		pq.Array(ids),
		submission.Date.UTC(),
		doc,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

const selectSubmissions = `
	SELECT id, cpid, ocid, owner, token, status, candidates, date, document
	FROM submissions
	WHERE cpid = $1 AND ocid = $2
`

func (s *PostgresStore) FindByIDs(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, ids []domain.SubmissionID) ([]models.Submission, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	var rows []submissionRow
	query := selectSubmissions + ` AND id = ANY($3::uuid[]) ORDER BY date, id`
	if err := s.db.SelectContext(ctx, &rows, query, cpid.String(), ocid.String(), pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("find submissions by ids: %w", err)
	}
	return toSubmissions(rows)
}

func (s *PostgresStore) FindAll(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) ([]models.Submission, error) {
	var rows []submissionRow
	if err := s.db.SelectContext(ctx, &rows, selectSubmissions+` ORDER BY date, id`, cpid.String(), ocid.String()); err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	return toSubmissions(rows)
}

// UpdateStatuses writes all states in one transaction and rolls back when
// any id is missing.
func (s *PostgresStore) UpdateStatuses(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid, states []models.State) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update statuses: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx,
		`UPDATE submissions SET status = $1 WHERE cpid = $2 AND ocid = $3 AND id = $4`)
	if err != nil {
		return fmt.Errorf("prepare update status: %w", err)
	}
	defer stmt.Close()

	for _, st := range states {
		res, execErr := stmt.ExecContext(ctx, st.Status.String(), cpid.String(), ocid.String(), uuid.UUID(st.ID))
		if execErr != nil {
			return fmt.Errorf("update submission status: %w", execErr)
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return fmt.Errorf("update submission status rows affected: %w", raErr)
		}
		if affected == 0 {
			return sentinel.ErrNotFound
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update statuses: %w", err)
	}
	return nil
}

func toSubmissions(rows []submissionRow) ([]models.Submission, error) {
	out := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := toSubmission(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func toSubmission(row submissionRow) (models.Submission, error) {
	cpid, fail, ok := domain.ParseCpid(row.Cpid).Unwrap()
	if !ok {
		return models.Submission{}, dErrors.DatabaseParsing("cpid", row.Cpid, fail)
	}
	ocid, fail, ok := domain.ParseOcid(row.Ocid).Unwrap()
	if !ok {
		return models.Submission{}, dErrors.DatabaseParsing("ocid", row.Ocid, fail)
	}
	status, fail, ok := domain.ParseSubmissionStatus("status", row.Status).Unwrap()
	if !ok {
		return models.Submission{}, dErrors.DatabaseParsing("status", row.Status, fail)
	}
	var doc document
	if err := jsonx.DecodeStrict(row.Document, &doc); err != nil {
		return models.Submission{}, dErrors.Deserialization("submission", err)
	}
	return models.Submission{
		ID:                   domain.SubmissionID(row.ID),
		Cpid:                 cpid,
		Ocid:                 ocid,
		Owner:                domain.Owner(row.Owner),
		Token:                domain.Token(row.Token),
		Status:               status,
		Date:                 row.Date.UTC(),
		Candidates:           doc.Candidates,
		Documents:            doc.Documents,
		RequirementResponses: doc.RequirementResponses,
	}, nil
}
