package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tokenrelay/internal/logging"
	"tokenrelay/internal/middleware"
	"tokenrelay/internal/modules/auth"
	"tokenrelay/internal/pkg/response"
)

type RouterDeps struct {
	Auth   *auth.Handler
	Guard  *auth.Guard
	Logger logging.Logger
}

// NewRouter mounts /login and /refresh publicly and everything else behind
// the access guard.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	deps.Auth.RegisterPublicRoutes(r)

	protected := r.Group("/")
	protected.Use(middleware.JWTAuth(deps.Guard))
	deps.Auth.RegisterProtectedRoutes(protected)

	return r
}
