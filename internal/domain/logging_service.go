package domain

import (
	"context"
	"errors"
	"log/slog"
)

type loggingCameraRegistry struct {
	logger *slog.Logger
	next   CameraRegistry
}

func NewLoggingCameraRegistry(logger *slog.Logger, next CameraRegistry) CameraRegistry {
	if logger == nil || next == nil {
		return next
	}

	return &loggingCameraRegistry{
		logger: logger,
		next:   next,
	}
}

func (s *loggingCameraRegistry) CheckCamera(ctx context.Context, ip string) (CameraLookup, error) {
	lookup, err := s.next.CheckCamera(ctx, ip)
	if err != nil {
		s.logger.ErrorContext(ctx, "check camera failed", "ip", ip, "err", err.Error())
		return CameraLookup{}, err
	}

	s.logger.DebugContext(ctx, "camera checked", "ip", ip, "found", lookup.Found)
	return lookup, nil
}

func (s *loggingCameraRegistry) AddCamera(ctx context.Context, input AddCameraInput) (AddCameraResult, error) {
	result, err := s.next.AddCamera(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "add camera failed", "ip", input.IP, "lab", string(input.Lab), "err", err.Error())
		return result, err
	}
	if !result.Success {
		s.logger.WarnContext(ctx, "add camera rejected", "ip", input.IP, "lab", string(input.Lab), "reason", result.Message)
		return result, nil
	}

	s.logger.InfoContext(ctx, "camera added", "ip", input.IP, "lab", string(input.Lab))
	return result, nil
}

type loggingLabService struct {
	logger *slog.Logger
	next   LabService
}

func NewLoggingLabService(logger *slog.Logger, next LabService) LabService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingLabService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingLabService) ListLabs(ctx context.Context) ([]LabIdentifier, error) {
	labs, err := s.next.ListLabs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list labs failed", "err", err.Error())
	}
	return labs, err
}

func (s *loggingLabService) ResolveLab(ctx context.Context, requested LabIdentifier) (LabIdentifier, error) {
	lab, err := s.next.ResolveLab(ctx, requested)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrNotFound) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "resolve lab failed", "requested", string(requested), "err", err.Error())
		return "", err
	}
	if requested != "" && lab != requested {
		s.logger.WarnContext(ctx, "requested lab unknown, using default", "requested", string(requested), "lab", string(lab))
	}
	return lab, nil
}
