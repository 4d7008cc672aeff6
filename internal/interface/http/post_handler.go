package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/application"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type createPostRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Post  string `json:"post" binding:"required"`
}

// Create POST /api/user/posts
func (h *PostHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "no authentication token sent", nil)
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, response.CodePostGeneric, "invalid payload", validation.ToDetails(err))
		return
	}

	postUUID, err := h.Svc.CreatePost(c.Request.Context(), identity.UserUUID(), req.Title, req.Post)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, response.CodePostGeneric, "failed to create post", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"postUuid": postUUID}, "post created", nil)
}

// GetByUUID GET /api/user/posts/:uuid
func (h *PostHandler) GetByUUID(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "no authentication token sent", nil)
		return
	}

	p, err := h.Svc.GetPost(identity.UserUUID(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, response.CodePostNotFound, "post not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, response.CodePostGeneric, "failed to get post", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uuid": p.UUID, "title": p.Title, "post": p.Body}, "post", nil)
}

// List GET /api/user/posts
func (h *PostHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "no authentication token sent", nil)
		return
	}

	posts, err := h.Svc.ListPosts(identity.UserUUID())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, response.CodePostNotFound, "post not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, response.CodePostGeneric, "failed to list posts", nil)
		return
	}

	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		out = append(out, gin.H{"uuid": p.UUID, "title": p.Title, "post": p.Body})
	}
	response.Success(c, http.StatusOK, gin.H{"posts": out}, "posts", nil)
}

// Search GET /api/user/search?q=
func (h *PostHandler) Search(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, response.CodeUnauthenticated, "no authentication token sent", nil)
		return
	}

	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, response.CodePostGeneric, "missing query", nil)
		return
	}

	results, err := h.Svc.SearchPosts(c.Request.Context(), identity.UserUUID(), q, 10)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, response.CodePostGeneric, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results}, "search results", nil)
}
