package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

const userSchema = `
CREATE TABLE IF NOT EXISTS user (
	id             INTEGER PRIMARY KEY,
	email          TEXT NOT NULL UNIQUE,
	password       TEXT NOT NULL,
	display_name   TEXT NOT NULL UNIQUE,
	uuid           TEXT NOT NULL UNIQUE,
	email_verified INTEGER NOT NULL DEFAULT 0
)`

// UserRepository is the credential store: one users.db file shared by the
// whole process. A single guarded connection serializes register/login;
// each operation is a fast local-disk transaction so the lock is cheap.
type UserRepository struct {
	mu sync.Mutex
	db *sql.DB
}

// NewUserRepository opens (or creates) users.db under dir and ensures the
// schema exists. The returned store must be closed by the caller at
// shutdown.
func NewUserRepository(dir string) (*UserRepository, error) {
	db, err := open(filepath.Join(dir, "users.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(userSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create user table: %w", err)
	}
	return &UserRepository{db: db}, nil
}

func (r *UserRepository) Close() error {
	return r.db.Close()
}

func (r *UserRepository) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	verified := 0
	if u.EmailVerified {
		verified = 1
	}
	_, err := r.db.Exec(`
		INSERT INTO user (email, password, display_name, uuid, email_verified)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.Password, u.DisplayName, u.UUID, verified)
	if err != nil {
		switch {
		case isUniqueViolation(err, "user.email"):
			return repository.ErrEmailExists
		case isUniqueViolation(err, "user.display_name"):
			return repository.ErrDisplayNameExists
		default:
			return fmt.Errorf("insert user: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scanOne(r.db.QueryRow(`
		SELECT uuid, email, password, display_name, email_verified
		FROM user WHERE email = ? LIMIT 1
	`, email))
}

func (r *UserRepository) GetByUUID(uuid string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scanOne(r.db.QueryRow(`
		SELECT uuid, email, password, display_name, email_verified
		FROM user WHERE uuid = ? LIMIT 1
	`, uuid))
}

// SetVerified flips the email_verified flag. No core flow depends on it
// yet; the column is kept so existing databases stay forward compatible.
func (r *UserRepository) SetVerified(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`UPDATE user SET email_verified = 1 WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*entity.User, error) {
	u := &entity.User{}
	var verified int
	if err := row.Scan(&u.UUID, &u.Email, &u.Password, &u.DisplayName, &verified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.EmailVerified = verified != 0
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
