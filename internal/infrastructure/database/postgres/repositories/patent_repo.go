// Package repositories provides the PostgreSQL implementation of the
// portfolio repository.
package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

const uniqueViolation = "23505"

const patentColumns = `id, name, patentee, country, status, type, app_number, pub_number,
	app_date, pub_date, duration, annuity_date, annuity_year, inventor, link, abstract,
	notification_emails, created_at, updated_at`

type baseRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

func (r *baseRepo) executor() queryExecutor {
	return r.conn.DB()
}

type postgresPatentRepo struct {
	baseRepo
}

// NewPostgresPatentRepo returns a patent.Repository backed by the patents
// table. List order follows the insertion sequence column.
func NewPostgresPatentRepo(conn *postgres.Connection, log logging.Logger) patent.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &postgresPatentRepo{baseRepo: baseRepo{conn: conn, log: log.Named("patent_repo")}}
}

func (r *postgresPatentRepo) Save(ctx context.Context, p *patent.Patent) error {
	if p == nil || p.ID == "" {
		return errors.InvalidParam("patent id is required")
	}
	return r.insert(ctx, r.executor(), p)
}

// SaveAll inserts in reverse so that ps[0] receives the highest sequence
// number. Any failure rolls the whole batch back.
func (r *postgresPatentRepo) SaveAll(ctx context.Context, ps ...*patent.Patent) (err error) {
	for _, p := range ps {
		if p == nil || p.ID == "" {
			return errors.InvalidParam("patent id is required")
		}
	}
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Warn("rollback failed", logging.Err(rbErr))
			}
		}
	}()

	for i := len(ps) - 1; i >= 0; i-- {
		if err = r.insert(ctx, tx, ps[i]); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit patents")
	}
	return nil
}

func (r *postgresPatentRepo) insert(ctx context.Context, exec queryExecutor, p *patent.Patent) error {
	query := `INSERT INTO patents (` + patentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := exec.ExecContext(ctx, query,
		p.ID, p.Name, p.Patentee, string(p.Country), string(p.Status), string(p.Type),
		p.AppNumber, p.PubNumber, p.AppDate, p.PubDate, p.Duration, p.AnnuityDate, p.AnnuityYear,
		p.Inventor, p.Link, p.Abstract, p.NotificationEmails, timestamp(p.CreatedAt), timestamp(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodePatentAlreadyExists, "patent already exists").WithDetail(p.ID)
		}
		r.log.Error("insert patent failed", logging.String("id", p.ID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert patent")
	}
	return nil
}

func (r *postgresPatentRepo) Update(ctx context.Context, p *patent.Patent) error {
	if p == nil {
		return errors.InvalidParam("patent is nil")
	}
	query := `UPDATE patents SET name = $2, patentee = $3, country = $4, status = $5, type = $6,
		app_number = $7, pub_number = $8, app_date = $9, pub_date = $10, duration = $11,
		annuity_date = $12, annuity_year = $13, inventor = $14, link = $15, abstract = $16,
		notification_emails = $17, updated_at = $18
		WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, query,
		p.ID, p.Name, p.Patentee, string(p.Country), string(p.Status), string(p.Type),
		p.AppNumber, p.PubNumber, p.AppDate, p.PubDate, p.Duration, p.AnnuityDate, p.AnnuityYear,
		p.Inventor, p.Link, p.Abstract, p.NotificationEmails, timestamp(p.UpdatedAt),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update patent")
	}
	return r.requireRow(res, p.ID)
}

func (r *postgresPatentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.executor().ExecContext(ctx, `DELETE FROM patents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete patent")
	}
	return r.requireRow(res, id)
}

func (r *postgresPatentRepo) FindByID(ctx context.Context, id string) (*patent.Patent, error) {
	row := r.executor().QueryRowContext(ctx, `SELECT `+patentColumns+` FROM patents WHERE id = $1`, id)
	p, err := scanPatent(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load patent")
	}
	return p, nil
}

func (r *postgresPatentRepo) List(ctx context.Context) ([]*patent.Patent, error) {
	rows, err := r.executor().QueryContext(ctx, `SELECT `+patentColumns+` FROM patents ORDER BY seq DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list patents")
	}
	defer rows.Close()

	var out []*patent.Patent
	for rows.Next() {
		p, err := scanPatent(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan patent")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate patents")
	}
	return out, nil
}

func (r *postgresPatentRepo) requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read affected rows")
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func scanPatent(s scanner) (*patent.Patent, error) {
	var (
		p                    patent.Patent
		country, status, typ string
		createdAt, updatedAt time.Time
	)
	err := s.Scan(
		&p.ID, &p.Name, &p.Patentee, &country, &status, &typ,
		&p.AppNumber, &p.PubNumber, &p.AppDate, &p.PubDate, &p.Duration, &p.AnnuityDate, &p.AnnuityYear,
		&p.Inventor, &p.Link, &p.Abstract, &p.NotificationEmails, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Country = patent.Country(country)
	p.Status = patent.Status(status)
	p.Type = patent.Type(typ)
	p.CreatedAt, p.UpdatedAt = createdAt.UTC(), updatedAt.UTC()
	return &p, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodePatentNotFound, "patent not found").WithDetail(id)
}

func timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

var _ patent.Repository = (*postgresPatentRepo)(nil)

//Personal.AI order the ending
