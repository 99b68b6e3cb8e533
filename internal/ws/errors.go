package ws

import "errors"

var (
	ErrClientQueueFull      = errors.New("client message queue is full")
	ErrInvalidFrame         = errors.New("invalid frame format")
	ErrNotAuthenticated     = errors.New("connection is not authenticated")
	ErrAlreadyAuthenticated = errors.New("connection is already authenticated")
	ErrMissingBearerToken   = errors.New("missing bearer token")
	ErrUnknownDestination   = errors.New("unknown destination")
)
