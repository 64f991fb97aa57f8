package app

import "github.com/gin-gonic/gin"

// Module is implemented by each feature module to register its routes.
// The public group carries no authentication; the admin group requires a
// valid bearer token with the admin role.
type Module interface {
	RegisterRoutes(public *gin.RouterGroup, admin *gin.RouterGroup)
}
