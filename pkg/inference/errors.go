package inference

import "errors"

var (
	// ErrTransport indicates the request never produced a usable HTTP response
	// (DNS, connection, non-2xx status).
	ErrTransport = errors.New("predict transport failure")

	// ErrDecode indicates the response body was not a JSON object.
	ErrDecode = errors.New("predict response could not be decoded")

	// ErrScoreMissing indicates a well-formed response without a numeric score field.
	ErrScoreMissing = errors.New("predict response has no numeric score")
)
