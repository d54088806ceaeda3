package backend

import "errors"

var (
	// ErrUnavailable indicates the backend could not be reached or answered with a non-2xx status.
	ErrUnavailable = errors.New("analytics backend unavailable")

	// ErrDecode indicates the response did not match the declared schema.
	ErrDecode = errors.New("analytics backend response could not be decoded")
)
