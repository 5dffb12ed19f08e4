package http

import "github.com/gin-gonic/gin"

// Module is a bounded context (leads, campaigns, analytics) that mounts its
// own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each module during route registration.
type RouterContext struct {
	// V1 is the /api/v1 group; modules add their own sub-groups.
	V1 *gin.RouterGroup
}
