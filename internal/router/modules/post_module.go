package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

// PostModule wires the protected per-user post routes.
// All routes sit behind the auth gate; the post handlers only ever see
// the validated identity, never a raw user id from the client.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/user")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.GET("/posts", m.Handler.List)
		auth.GET("/posts/:uuid", m.Handler.GetByUUID)
		auth.GET("/search", m.Handler.Search)
	}
}
