package service

import (
	"errors"
	"fmt"

	"stoktakip-service/internal/store"
)

var (
	// ErrNotFound marks operations on an id with no row
	ErrNotFound = store.ErrNotFound

	// ErrInvalidInput marks payloads the service refuses to store
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
