package user

import "errors"

var (
	ErrNotActual        = errors.New("not actual record")
	ErrNotFound         = errors.New("user not found")
	ErrConflict         = errors.New("store was modified concurrently")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWriteFailed = errors.New("store write failed")
)
