package house

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for the listing domain.
type Module struct {
	handler *Handler
}

// NewModule creates a new listing Module. Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("house.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers public listing routes and admin mutation routes.
// The static /houses/all route must be registered alongside /houses/:id; the
// router matches the static segment first.
func (m *Module) RegisterRoutes(public *gin.RouterGroup, admin *gin.RouterGroup) {
	public.GET("/houses", m.handler.List)
	public.GET("/houses/:id", m.handler.Get)

	admin.GET("/houses/all", m.handler.ListAll)
	admin.POST("/houses", m.handler.Create)
	admin.PUT("/houses/:id", m.handler.Update)
	admin.DELETE("/houses/:id", m.handler.Delete)
	admin.DELETE("/houses/:id/images/:imageId", m.handler.DeleteImage)
}
