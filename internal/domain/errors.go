package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoDestination      = errors.New("no destination identity supplied")
	ErrInvalidRequest     = errors.New("invalid search request")
	ErrMissingCredentials = errors.New("missing credentials")
)
