package redisstore

import "errors"

// DefaultLimit is used by Recent when the caller passes no limit.
const DefaultLimit = 50

var (
	ErrStoreFailed = errors.New("redisstore: failed to append events")
	ErrQueryFailed = errors.New("redisstore: failed to read events")
	ErrEncode      = errors.New("redisstore: failed to encode event")
	ErrDecode      = errors.New("redisstore: failed to decode event")
)
