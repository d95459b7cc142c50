package domain

import "context"

// CameraRegistry is the NVR-backed endpoint pair the add-camera workflow
// talks to.
type CameraRegistry interface {
	CheckCamera(ctx context.Context, ip string) (CameraLookup, error)
	AddCamera(ctx context.Context, input AddCameraInput) (AddCameraResult, error)
}

type LabService interface {
	ListLabs(ctx context.Context) ([]LabIdentifier, error)
	ResolveLab(ctx context.Context, requested LabIdentifier) (LabIdentifier, error)
}
