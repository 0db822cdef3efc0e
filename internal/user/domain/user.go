package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// User is a marketplace account. Authentication lives in the hosted backend;
// the engine only needs identity lookups.
type User struct {
	ID       uuid.UUID
	Username string
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
