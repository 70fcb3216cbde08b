package audit

import "errors"

var (
	// ErrEventValidation indicates a malformed event reached a storage.
	ErrEventValidation = errors.New("event validation failed")

	// ErrRecorderClosed is returned by Close when called twice.
	ErrRecorderClosed = errors.New("audit recorder is closed")

	// ErrUnknownBackend indicates Config.Backend names no storage.
	ErrUnknownBackend = errors.New("unknown audit backend")
)
