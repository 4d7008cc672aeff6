package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

// memUserRepo is an in-memory repository.UserRepository for service tests.
type memUserRepo struct {
	byEmail map[string]*entity.User
	byUUID  map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byEmail: make(map[string]*entity.User),
		byUUID:  make(map[string]*entity.User),
	}
}

func (m *memUserRepo) Create(u *entity.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrEmailExists
	}
	for _, existing := range m.byEmail {
		if existing.DisplayName == u.DisplayName {
			return repo.ErrDisplayNameExists
		}
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	m.byUUID[u.UUID] = &cp
	return nil
}

func (m *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByUUID(uuid string) (*entity.User, error) {
	if u, ok := m.byUUID[uuid]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) SetVerified(uuid string) error {
	u, ok := m.byUUID[uuid]
	if !ok {
		return repo.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func newTestUserService(r repo.UserRepository) *UserService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewUserService(r, helpers.NewJWTManager("test-secret", time.Hour), logger)
}

func TestUserService_RegisterStoresHash(t *testing.T) {
	store := newMemUserRepo()
	svc := newTestUserService(store)

	userUUID, err := svc.Register(context.Background(), "a@example.com", "password123", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, userUUID)

	stored, err := store.GetByEmail("a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password, "plaintext must never hit the store")
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "password123"))
}

func TestUserService_RegisterConflicts(t *testing.T) {
	store := newMemUserRepo()
	svc := newTestUserService(store)

	_, err := svc.Register(context.Background(), "a@example.com", "password123", "alice")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@example.com", "password123", "other")
	assert.ErrorIs(t, err, repo.ErrEmailExists)

	_, err = svc.Register(context.Background(), "b@example.com", "password123", "alice")
	assert.ErrorIs(t, err, repo.ErrDisplayNameExists)
}

func TestUserService_LoginSuccess(t *testing.T) {
	store := newMemUserRepo()
	svc := newTestUserService(store)

	userUUID, err := svc.Register(context.Background(), "a@example.com", "password123", "alice")
	require.NoError(t, err)

	token, exp, gotUUID, err := svc.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, userUUID, gotUUID)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userUUID, claims.UUID)
}

func TestUserService_LoginFailuresIndistinguishable(t *testing.T) {
	store := newMemUserRepo()
	svc := newTestUserService(store)

	_, err := svc.Register(context.Background(), "a@example.com", "password123", "alice")
	require.NoError(t, err)

	_, _, _, unknownEmailErr := svc.Login(context.Background(), "nobody@example.com", "password123")
	_, _, _, wrongPasswordErr := svc.Login(context.Background(), "a@example.com", "wrongpassword")

	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPasswordErr, ErrInvalidCredentials)
	// Both failures surface the exact same error value.
	assert.Equal(t, unknownEmailErr, wrongPasswordErr)
}
