package metadata

import (
	"context"
)

// Repository is a string key/value store that survives client restarts.
// A missing key is reported with ok == false, not as an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	// SetMany upserts all pairs. Callers that need the group to appear
	// atomically bind the repository to a transaction.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
