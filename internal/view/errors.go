package view

import (
	"errors"

	"github.com/znsio/specmatic-product-admin-go/internal/services"
)

var (
	// ErrNoSession is returned when no token was available at mount.
	ErrNoSession = errors.New("no session token")
	// ErrUnauthorized marks a session the upstream rejected; it is terminal.
	ErrUnauthorized = services.ErrUnauthorized

	ErrValidation      = errors.New("product validation failed")
	ErrNoWorkingCopy   = errors.New("no product is open")
	ErrNotEditing      = errors.New("product is open read-only")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrUnknownField    = errors.New("unknown product field")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrImageIndex      = errors.New("image index out of range")
	ErrUnknownMode     = errors.New("unknown open mode")
	ErrProductNotFound = errors.New("product not found")
)
