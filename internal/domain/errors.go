package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrMissingCamera = errors.New("camera ip or device info missing")
	ErrMissingLab    = errors.New("lab name missing")
	ErrRejected      = errors.New("rejected by server")
	ErrInFlight      = errors.New("request already in flight")
	ErrStale         = errors.New("stale response dropped")
)
