package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	ErrNonDeterministic = errors.New("non-deterministic result")
)

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
