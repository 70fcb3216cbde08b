package pgstore

import "errors"

// DefaultLimit is used by Recent when the caller passes no limit.
const DefaultLimit = 50

var (
	ErrStoreFailed = errors.New("pgstore: failed to store events")
	ErrQueryFailed = errors.New("pgstore: failed to query events")
)
