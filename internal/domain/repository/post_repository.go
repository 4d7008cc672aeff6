package repository

import "github.com/oksasatya/go-microblog/internal/domain/entity"

// PostRepository defines the interface for per-user post partitions.
// The userUUID always comes from a validated identity, never from
// client-supplied input; that is what keeps partitions isolated.
type PostRepository interface {
	Create(userUUID, title, body string) (string, error)
	GetByUUID(userUUID, postUUID string) (*entity.Post, error)
	List(userUUID string, limit int) ([]entity.Post, error)
}
