package http

import (
	"profiles_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries what modules need to register routes.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind AuthMiddleware.
	Protected       *gin.RouterGroup
	AuthMiddleware  gin.HandlerFunc
	AuthRateLimiter *httpkit.AuthRateLimiter
}
