package domain

import "context"

type LabRepository interface {
	ListNames(ctx context.Context) ([]string, error)
}
