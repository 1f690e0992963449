package domain

import "errors"

// Not-found sentinels shared by repositories, services and the REST layer,
// where they map to 404 responses.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrJobNotFound      = errors.New("inference job not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrModelNotFound    = errors.New("model not found")
	ErrNoActiveModel    = errors.New("no active model")
)
