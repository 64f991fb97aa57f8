package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/eimonte/estate/internal/pkg"
)

// Handler handles REST API requests for authentication.
type Handler struct {
	svc Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}
