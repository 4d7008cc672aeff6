package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
)

// AuthModule wires the public register/login endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Both endpoints get IP-based limits; register is tighter because a
	// bcrypt hash burns CPU on every attempt.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}
