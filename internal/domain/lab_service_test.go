package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLabRepository struct {
	listNamesFn func(context.Context) ([]string, error)
}

func (s stubLabRepository) ListNames(ctx context.Context) ([]string, error) {
	if s.listNamesFn == nil {
		return nil, nil
	}
	return s.listNamesFn(ctx)
}

func labsRepo(names ...string) stubLabRepository {
	return stubLabRepository{
		listNamesFn: func(context.Context) ([]string, error) {
			return names, nil
		},
	}
}

func TestResolveLabKeepsKnownLab(t *testing.T) {
	svc := NewLabService(labsRepo("E1-01", "E2-L6-016", "E2-L6-017"), "E2-L6-016")

	lab, err := svc.ResolveLab(context.Background(), "E2-L6-017")
	require.NoError(t, err)
	assert.Equal(t, LabIdentifier("E2-L6-017"), lab)
}

func TestResolveLabPrefersConfiguredDefault(t *testing.T) {
	svc := NewLabService(labsRepo("E1-01", "E2-L6-016"), "E2-L6-016")

	for _, requested := range []LabIdentifier{"", "no-such-lab"} {
		lab, err := svc.ResolveLab(context.Background(), requested)
		require.NoError(t, err)
		assert.Equal(t, LabIdentifier("E2-L6-016"), lab, "requested %q", requested)
	}
}

func TestResolveLabFallsBackToFirstLab(t *testing.T) {
	for _, preferred := range []LabIdentifier{"", "gone"} {
		svc := NewLabService(labsRepo("E1-01", "E2-L6-016"), preferred)

		lab, err := svc.ResolveLab(context.Background(), "no-such-lab")
		require.NoError(t, err)
		assert.Equal(t, LabIdentifier("E1-01"), lab, "preferred %q", preferred)
	}
}

func TestResolveLabReturnsNotFoundWithoutLabs(t *testing.T) {
	svc := NewLabService(labsRepo(), "E2-L6-016")

	_, err := svc.ResolveLab(context.Background(), "E1-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLabsPropagatesRepositoryError(t *testing.T) {
	repoErr := errors.New("db down")
	svc := NewLabService(stubLabRepository{
		listNamesFn: func(context.Context) ([]string, error) {
			return nil, repoErr
		},
	}, "")

	_, err := svc.ListLabs(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
