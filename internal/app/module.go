package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// Its routes are mounted behind authentication and, when RBAC is enabled,
// behind the permission it names. An empty permission only requires a login.
type Module interface {
	Permission() string
	RegisterRoutes(api *gin.RouterGroup)
}

// PublicModule is implemented by modules that also expose routes which need
// no authentication, such as login or the public site info.
type PublicModule interface {
	RegisterPublicRoutes(api *gin.RouterGroup)
}
