package db

import (
	"context"
	"errors"
	"testing"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type stubQuerier struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s stubQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.queryFn(ctx, sql, args...)
}

func TestListNamesMapsMissingTableToNotFound(t *testing.T) {
	repo := NewLabRepository(stubQuerier{
		queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
			return nil, &pgconn.PgError{Code: "42P01", Message: `relation "lab" does not exist`}
		},
	})

	_, err := repo.ListNames(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNamesPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewLabRepository(stubQuerier{
		queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
			return nil, boom
		},
	})

	_, err := repo.ListNames(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
