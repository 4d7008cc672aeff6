package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

const postSchema = `
CREATE TABLE IF NOT EXISTS post (
	id    INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	post  TEXT NOT NULL,
	uuid  TEXT NOT NULL UNIQUE
)`

// maxListPosts bounds every list result; there is no pagination cursor.
const maxListPosts = 100

// PostRepository stores each user's posts in an isolated database file
// under dir, named deterministically from the user's uuid. Connections
// are opened per call and closed immediately: requests for different
// users never contend, and same-user writes serialize on SQLite's own
// file locking.
type PostRepository struct {
	dir string
}

func NewPostRepository(dir string) *PostRepository {
	return &PostRepository{dir: dir}
}

func (r *PostRepository) partitionPath(userUUID string) string {
	return filepath.Join(r.dir, "user_"+userUUID+".db")
}

// Create lazily initializes the user's partition on first write, then
// inserts the post under a fresh uuid.
func (r *PostRepository) Create(userUUID, title, body string) (string, error) {
	db, err := open(r.partitionPath(userUUID))
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(postSchema); err != nil {
		return "", fmt.Errorf("create post table: %w", err)
	}

	postUUID := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO post (title, post, uuid) VALUES (?, ?, ?)
	`, title, body, postUUID); err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	return postUUID, nil
}

func (r *PostRepository) GetByUUID(userUUID, postUUID string) (*entity.Post, error) {
	db, err := r.openExisting(userUUID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	p := &entity.Post{}
	row := db.QueryRow(`SELECT uuid, title, post FROM post WHERE uuid = ? LIMIT 1`, postUUID)
	if err := row.Scan(&p.UUID, &p.Title, &p.Body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) List(userUUID string, limit int) ([]entity.Post, error) {
	if limit <= 0 || limit > maxListPosts {
		limit = maxListPosts
	}

	db, err := r.openExisting(userUUID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT uuid, title, post FROM post LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.UUID, &p.Title, &p.Body); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// openExisting refuses to create the partition: reads against a user who
// has never written a post must report not found, not conjure an empty
// database.
func (r *PostRepository) openExisting(userUUID string) (*sql.DB, error) {
	path := r.partitionPath(userUUID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("stat partition: %w", err)
	}
	return open(path)
}

var _ repository.PostRepository = (*PostRepository)(nil)
