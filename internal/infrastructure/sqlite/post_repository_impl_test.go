package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	dir := t.TempDir()
	r := NewPostRepository(dir)
	owner := uuid.NewString()

	postUUID, err := r.Create(owner, "hello", "first post body")
	require.NoError(t, err)
	require.NotEmpty(t, postUUID)

	got, err := r.GetByUUID(owner, postUUID)
	require.NoError(t, err)
	assert.Equal(t, postUUID, got.UUID)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, "first post body", got.Body)

	// The write created exactly this user's partition file.
	assert.FileExists(t, filepath.Join(dir, "user_"+owner+".db"))
}

func TestPostRepository_ReadsDoNotCreatePartition(t *testing.T) {
	dir := t.TempDir()
	r := NewPostRepository(dir)
	owner := uuid.NewString()

	_, err := r.GetByUUID(owner, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.List(owner, 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, statErr := os.Stat(filepath.Join(dir, "user_"+owner+".db"))
	assert.True(t, os.IsNotExist(statErr), "read must not create the partition file")
}

func TestPostRepository_UnknownPostInExistingPartition(t *testing.T) {
	r := NewPostRepository(t.TempDir())
	owner := uuid.NewString()

	_, err := r.Create(owner, "t", "b")
	require.NoError(t, err)

	_, err = r.GetByUUID(owner, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_UserIsolation(t *testing.T) {
	r := NewPostRepository(t.TempDir())
	alice := uuid.NewString()
	bob := uuid.NewString()

	alicePost, err := r.Create(alice, "alice post", "private")
	require.NoError(t, err)
	_, err = r.Create(bob, "bob post", "also private")
	require.NoError(t, err)

	// Bob cannot read Alice's post even with a valid post uuid.
	_, err = r.GetByUUID(bob, alicePost)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	posts, err := r.List(bob, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "bob post", posts[0].Title)
}

func TestPostRepository_ListCap(t *testing.T) {
	r := NewPostRepository(t.TempDir())
	owner := uuid.NewString()

	for i := 0; i < maxListPosts+5; i++ {
		_, err := r.Create(owner, fmt.Sprintf("post %d", i), "body")
		require.NoError(t, err)
	}

	posts, err := r.List(owner, 0)
	require.NoError(t, err)
	assert.Len(t, posts, maxListPosts)

	// Explicit limits above the cap are clamped too.
	posts, err = r.List(owner, maxListPosts*2)
	require.NoError(t, err)
	assert.Len(t, posts, maxListPosts)

	posts, err = r.List(owner, 3)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}
