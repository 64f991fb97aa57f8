package auth

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for authentication.
type Module struct {
	handler *Handler
}

// NewModule creates a new auth Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers authentication routes. Login stays public; there is
// nothing for the admin group here.
func (m *Module) RegisterRoutes(public *gin.RouterGroup, admin *gin.RouterGroup) {
	public.POST("/auth/login", m.handler.Login)
}
