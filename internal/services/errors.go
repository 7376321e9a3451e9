package services

import "errors"

var (
	// ErrUnauthorized means no acting profile was resolved for the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested row does not exist or is not visible to the actor.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange means a report range has start after end.
	ErrInvalidRange = errors.New("invalid range")
)
