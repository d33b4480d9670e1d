package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Data is what a session remembers about the logged-in user. Role is looked up
// per request so it is deliberately absent here.
type Data struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Store keeps sessions keyed by an opaque token with idle expiry.
type Store interface {
	Save(ctx context.Context, token string, data Data) error
	Get(ctx context.Context, token string) (Data, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns a fresh opaque session token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
