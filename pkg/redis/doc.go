// Package redis opens go-redis clients with retry and exposes a readiness
// probe. It backs the Redis stream audit storage.
package redis
