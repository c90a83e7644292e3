package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jmoiron/sqlx"

	"dossier/internal/period/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/platform/sentinel"
)

const (
	tablePeriods = "periods"
	colCpid      = "cpid"
	colOcid      = "ocid"
	colStartDate = "start_date"
	colEndDate   = "end_date"
)

type periodRow struct {
	Cpid      string    `db:"cpid"`
	Ocid      string    `db:"ocid"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

// PostgresStore persists periods in PostgreSQL. Queries are built with goqu
// and executed through sqlx.
type PostgresStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, dialect: goqu.Dialect("postgres")}
}

func (s *PostgresStore) Find(ctx context.Context, cpid domain.Cpid, ocid domain.Ocid) (*models.Record, error) {
	query, args, err := s.dialect.
		From(tablePeriods).
		Select(colCpid, colOcid, colStartDate, colEndDate).
		Where(goqu.Ex{colCpid: cpid.String(), colOcid: ocid.String()}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find period query: %w", err)
	}

	var row periodRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find period: %w", err)
	}
	return toRecord(row)
}

// SaveOrUpdate upserts the period. The update branch only fires when the
// stored end date is not after the new one, so a racing writer that already
// extended further makes this call affect no rows.
func (s *PostgresStore) SaveOrUpdate(ctx context.Context, record models.Record) error {
	query, args, err := s.dialect.
		Insert(tablePeriods).
		Rows(goqu.Record{
			colCpid:      record.Cpid.String(),
			colOcid:      record.Ocid.String(),
			colStartDate: record.Period.StartDate.UTC(),
			colEndDate:   record.Period.EndDate.UTC(),
		}).
		OnConflict(goqu.DoUpdate(colCpid+", "+colOcid, goqu.Record{
			colStartDate: goqu.I("excluded." + colStartDate),
			colEndDate:   goqu.I("excluded." + colEndDate),
		}).Where(goqu.I(tablePeriods+"."+colEndDate).Lte(goqu.I("excluded."+colEndDate)))).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save period query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save period: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save period rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func toRecord(row periodRow) (*models.Record, error) {
	cpid, fail, ok := domain.ParseCpid(row.Cpid).Unwrap()
	if !ok {
		return nil, dErrors.DatabaseParsing(colCpid, row.Cpid, fail)
	}
	ocid, fail, ok := domain.ParseOcid(row.Ocid).Unwrap()
	if !ok {
		return nil, dErrors.DatabaseParsing(colOcid, row.Ocid, fail)
	}
	period := models.Period{StartDate: row.StartDate.UTC(), EndDate: row.EndDate.UTC()}
	if !period.IsOrdered() {
		return nil, dErrors.DatabaseConsistency(fmt.Sprintf("Stored period of '%s' starts at %s, not before its end at %s.",
			row.Ocid, domain.FormatDate(period.StartDate), domain.FormatDate(period.EndDate)))
	}
	return &models.Record{Cpid: cpid, Ocid: ocid, Period: period}, nil
}
