package db

import (
	"context"
	"errors"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const listLabNames = `SELECT lab_name FROM lab ORDER BY lab_name`

// Querier is the part of a pgx pool or transaction the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type LabRepository struct {
	q Querier
}

var _ domain.LabRepository = (*LabRepository)(nil)

func NewLabRepository(q Querier) *LabRepository {
	return &LabRepository{q: q}
}

func (r *LabRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, listLabNames)
	if err != nil {
		return nil, wrapMissingTable(err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapMissingTable(err)
	}

	return names, nil
}

func wrapMissingTable(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return errors.Join(domain.ErrNotFound, err)
	}
	return err
}
