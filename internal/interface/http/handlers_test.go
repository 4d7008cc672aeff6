package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

var initValidation sync.Once

type apiBody struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Data    map[string]any `json:"data"`
	Error   any            `json:"error"`
}

// newTestServer wires the real handlers against real SQLite repositories
// in a temp dir, mirroring the production route layout.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	initValidation.Do(validation.Init)
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	userRepo, err := sqlite.NewUserRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = userRepo.Close() })
	postRepo := sqlite.NewPostRepository(dir)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	userSvc := application.NewUserService(userRepo, jwt, logger)
	postSvc := application.NewPostService(postRepo, logger, nil, "")

	authHandler := NewAuthHandler(userSvc, logger, &config.Config{}, nil)
	postHandler := NewPostHandler(postSvc, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	user := api.Group("/user", middleware.Auth(jwt))
	user.POST("/posts", postHandler.Create)
	user.GET("/posts", postHandler.List)
	user.GET("/posts/:uuid", postHandler.GetByUUID)
	user.GET("/search", postHandler.Search)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) (*httptest.ResponseRecorder, apiBody) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed apiBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func registerAndLogin(t *testing.T, r *gin.Engine, email, password, displayName string) (token, userUUID string) {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": password, "displayName": displayName,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	userUUID, _ = body.Data["uuid"].(string)
	require.NotEmpty(t, userUUID)

	w, body = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ = body.Data["jwtToken"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, userUUID, body.Data["uuid"])
	return token, userUUID
}

func TestRegister(t *testing.T) {
	r := newTestServer(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "password123", "displayName": "alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	gotUUID, _ := body.Data["uuid"].(string)
	_, err := uuid.Parse(gotUUID)
	assert.NoError(t, err)
}

func TestRegister_Conflicts(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice@example.com", "password123", "alice")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "password123", "displayName": "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10022, body.Code)
	assert.Equal(t, "email already exists", body.Message)

	w, body = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "bob@example.com", "password": "password123", "displayName": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10023, body.Code)
	assert.Equal(t, "display name already exists", body.Message)
}

func TestRegister_Validation(t *testing.T) {
	r := newTestServer(t)

	cases := []struct {
		name    string
		payload gin.H
	}{
		{"short password", gin.H{"email": "a@example.com", "password": "short", "displayName": "alice"}},
		{"bad email", gin.H{"email": "not-an-email", "password": "password123", "displayName": "alice"}},
		{"missing display name", gin.H{"email": "a@example.com", "password": "password123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 10021, body.Code)
			assert.NotNil(t, body.Error)
		})
	}
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice@example.com", "password123", "alice")

	wUnknown, bodyUnknown := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "password123",
	})
	wWrong, bodyWrong := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrongpassword",
	})

	assert.Equal(t, http.StatusBadRequest, wUnknown.Code)
	assert.Equal(t, wUnknown.Code, wWrong.Code)
	assert.Equal(t, 10012, bodyUnknown.Code)
	assert.Equal(t, bodyUnknown.Code, bodyWrong.Code)
	assert.Equal(t, "invalid email or password", bodyUnknown.Message)
	assert.Equal(t, bodyUnknown.Message, bodyWrong.Message)
}

func TestPostFlow(t *testing.T) {
	r := newTestServer(t)
	token, _ := registerAndLogin(t, r, "alice@example.com", "password123", "alice")

	// create
	w, body := doJSON(t, r, http.MethodPost, "/api/user/posts", token, gin.H{
		"title": "first", "post": "hello world",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postUUID, _ := body.Data["postUuid"].(string)
	require.NotEmpty(t, postUUID)

	// fetch by uuid
	w, body = doJSON(t, r, http.MethodGet, "/api/user/posts/"+postUUID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "first", body.Data["title"])
	assert.Equal(t, "hello world", body.Data["post"])

	// list
	w, body = doJSON(t, r, http.MethodGet, "/api/user/posts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts, ok := body.Data["posts"].([]any)
	require.True(t, ok)
	assert.Len(t, posts, 1)

	// unknown post uuid
	w, body = doJSON(t, r, http.MethodGet, "/api/user/posts/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 20012, body.Code)
	assert.Equal(t, "post not found", body.Message)
}

func TestPostFlow_UserIsolation(t *testing.T) {
	r := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, r, "alice@example.com", "password123", "alice")
	bobToken, _ := registerAndLogin(t, r, "bob@example.com", "password123", "bob")

	w, body := doJSON(t, r, http.MethodPost, "/api/user/posts", aliceToken, gin.H{
		"title": "alice post", "post": "private",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	alicePost, _ := body.Data["postUuid"].(string)

	// Bob's token cannot reach Alice's post.
	w, body = doJSON(t, r, http.MethodGet, "/api/user/posts/"+alicePost, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 20012, body.Code)
}

func TestPostFlow_Unauthenticated(t *testing.T) {
	r := newTestServer(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/user/posts", "", gin.H{
		"title": "t", "post": "b",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 10031, body.Code)
	assert.Equal(t, "no authentication token sent", body.Message)

	// list for a fresh user who never posted: partition does not exist
	token, _ := registerAndLogin(t, r, "fresh@example.com", "password123", "fresh")
	w, body = doJSON(t, r, http.MethodGet, "/api/user/posts", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 20012, body.Code)
}

func TestSearch(t *testing.T) {
	r := newTestServer(t)
	token, _ := registerAndLogin(t, r, "alice@example.com", "password123", "alice")

	// missing query
	w, _ := doJSON(t, r, http.MethodGet, "/api/user/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// search engine not configured: empty result set, not an error
	w, body := doJSON(t, r, http.MethodGet, "/api/user/search?q=hello", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	results, ok := body.Data["results"].([]any)
	require.True(t, ok)
	assert.Empty(t, results)
}
