package router

import (
	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/container"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup after the container
// singletons are set.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userSvc := application.NewUserService(container.GetUserRepo(), container.GetJWT(), logger)
	postSvc := application.NewPostService(container.GetPostRepo(), logger, container.GetES(), cfg.ESPostsIndex)

	authHandler := handlers.NewAuthHandler(userSvc, logger, cfg, container.GetRabbitPub())
	postHandler := handlers.NewPostHandler(postSvc, logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewPostModule(postHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
