package repository

import (
	"errors"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations. Raw driver
// errors never cross this boundary; implementations map them here or wrap
// them as opaque store failures.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrDisplayNameExists = errors.New("display name already exists")
)

// UserRepository defines the interface for the credential store.
type UserRepository interface {
	Create(u *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByUUID(uuid string) (*entity.User, error)
	SetVerified(uuid string) error
}
