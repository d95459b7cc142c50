package domain

import (
	"context"
	"fmt"
	"slices"
)

type labService struct {
	labs      LabRepository
	preferred LabIdentifier
}

// NewLabService resolves unknown labs to preferred when it exists and to the
// first lab by name otherwise.
func NewLabService(labs LabRepository, preferred LabIdentifier) LabService {
	return &labService{labs: labs, preferred: preferred}
}

func (s *labService) ListLabs(ctx context.Context) ([]LabIdentifier, error) {
	names, err := s.labs.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LabIdentifier, 0, len(names))
	for _, name := range names {
		out = append(out, LabIdentifier(name))
	}
	return out, nil
}

func (s *labService) ResolveLab(ctx context.Context, requested LabIdentifier) (LabIdentifier, error) {
	labs, err := s.ListLabs(ctx)
	if err != nil {
		return "", err
	}
	if len(labs) == 0 {
		return "", fmt.Errorf("%w: no labs configured", ErrNotFound)
	}
	if requested != "" && slices.Contains(labs, requested) {
		return requested, nil
	}
	if s.preferred != "" && slices.Contains(labs, s.preferred) {
		return s.preferred, nil
	}
	return labs[0], nil
}
