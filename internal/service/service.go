package service

import "errors"

// Oracle reports connectivity at call time. Satisfied by
// connectivity.Monitor.
type Oracle interface {
	Online() bool
}

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
