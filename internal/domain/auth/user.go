package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrUserNotFound is returned when a token references a user that no longer
// exists.
var ErrUserNotFound = errors.New("user not found")

// User is the authenticated identity attached to a request. The order core
// only needs the ID; the rest is carried for response shaping.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// Repository provides user lookups for token verification.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
