package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

// ErrInvalidCredentials deliberately covers both unknown email and wrong
// password. Callers must not be able to tell which half failed, so the
// two cases are collapsed here and never separated again downstream.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService implements registration and login on top of the credential
// store and the token service.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Logger: logger}
}

// Register hashes the password, assigns a fresh uuid and stores the user.
// Conflicts surface as repository.ErrEmailExists / ErrDisplayNameExists.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (string, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	userUUID := uuid.NewString()
	u := &entity.User{
		UUID:        userUUID,
		Email:       email,
		Password:    hash,
		DisplayName: displayName,
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repo.ErrEmailExists) || errors.Is(err, repo.ErrDisplayNameExists) {
			return "", err
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Error("register failed")
		}
		return "", err
	}
	return userUUID, nil
}

// Login verifies credentials and on success issues a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, time.Time, string, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return "", time.Time{}, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, "", ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.UUID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("uuid", u.UUID).Error("generate token failed")
		}
		return "", time.Time{}, "", fmt.Errorf("generate token: %w", err)
	}
	return token, exp, u.UUID, nil
}
