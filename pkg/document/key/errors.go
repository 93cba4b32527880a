package key

import "errors"

var (
	// ErrInvalidKeyLength is returned when the key is too short or too long.
	ErrInvalidKeyLength = errors.New("key: invalid length")

	// ErrInvalidKeyFormat is returned when the key contains disallowed
	// characters.
	ErrInvalidKeyFormat = errors.New("key: invalid format")
)
