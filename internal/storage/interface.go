package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a key that was never set or was cleared
var ErrNotFound = errors.New("key not found")

// Fixed keys the session is persisted under
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionStore is the client's persistent key/value storage. It plays the
// role browser local storage plays for the web frontend: read once at start,
// written on change, cleared in full on logout.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}
