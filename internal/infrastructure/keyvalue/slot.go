// Package keyvalue persists small pieces of workspace state, such as the
// selected team, across process restarts.
package keyvalue

import "context"

// Slot stores a single string value under a fixed key. A missing value
// reads back as the empty string, not an error.
type Slot interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}
