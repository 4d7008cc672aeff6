package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/application"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/mailer"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cfg: cfg, Pub: pub}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	DisplayName string `json:"displayName" binding:"required,min=3,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, response.CodeRegisterGeneric, "invalid payload", validation.ToDetails(err))
		return
	}

	uuid, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmailExists):
			response.Error[any](c, http.StatusBadRequest, response.CodeEmailExists, "email already exists", nil)
		case errors.Is(err, repo.ErrDisplayNameExists):
			response.Error[any](c, http.StatusBadRequest, response.CodeDisplayNameExists, "display name already exists", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, response.CodeRegisterGeneric, "registration failed", nil)
		}
		return
	}

	h.enqueueWelcomeEmail(c, req.Email, req.DisplayName)
	response.Success(c, http.StatusCreated, gin.H{"uuid": uuid}, "registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, response.CodeLoginGeneric, "invalid payload", validation.ToDetails(err))
		return
	}

	token, exp, uuid, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password are indistinguishable on
		// purpose; both produce this exact response.
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusBadRequest, response.CodeInvalidEmailOrPassword, "invalid email or password", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, response.CodeLoginGeneric, "login failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"jwtToken": token, "uuid": uuid}, "login successful", map[string]any{"expires_at": exp})
}

func (h *AuthHandler) enqueueWelcomeEmail(c *gin.Context, email, displayName string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       email,
		Template: "welcome",
		Data:     map[string]any{"DisplayName": displayName},
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("email", email).Warn("enqueue welcome email failed")
	}
}
