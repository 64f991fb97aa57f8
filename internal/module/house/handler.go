package house

import (
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eimonte/estate/internal/domain"
	"github.com/eimonte/estate/internal/pkg"
)

// multipartFilesField is the form field carrying uploaded listing images.
const multipartFilesField = "images"

// Handler exposes listing operations over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates a new listing Handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /houses — public, active listings only.
func (h *Handler) List(c *gin.Context) {
	houses, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, houses)
}

// ListAll handles GET /houses/all — admin, includes soft-deleted listings.
func (h *Handler) ListAll(c *gin.Context) {
	houses, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, houses)
}

// Get handles GET /houses/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	house, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, house)
}

// Create handles POST /houses — multipart form with optional images.
func (h *Handler) Create(c *gin.Context) {
	form, files, ok := parseMultipart(c)
	if !ok {
		return
	}

	house, err := h.service.Create(c.Request.Context(), form, files)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "House created successfully", house)
}

// Update handles PUT /houses/:id — partial multipart update, new images are
// appended.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, files, ok := parseMultipart(c)
	if !ok {
		return
	}

	house, err := h.service.Update(c.Request.Context(), id, form, files)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, house)
}

// Delete handles DELETE /houses/:id — soft delete.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Message(c, "House deleted successfully")
}

// DeleteImage handles DELETE /houses/:id/images/:imageId — permanent removal
// of one image.
func (h *Handler) DeleteImage(c *gin.Context) {
	houseID, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), houseID, imageID); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Message(c, "Image deleted successfully")
}

// parseID reads a numeric path parameter. A non-numeric value behaves like a
// missing resource, not a client syntax error.
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeNotFound, "House not found", nil))
		return 0, false
	}
	return uint(id), true
}

// parseMultipart reads the multipart body into a typed form plus the uploaded
// image files. A plain form-urlencoded body (no files) is also accepted.
func parseMultipart(c *gin.Context) (*HouseForm, []*multipart.FileHeader, bool) {
	var files []*multipart.FileHeader

	mf, err := c.MultipartForm()
	if err == nil {
		files = mf.File[multipartFilesField]
		return ParseHouseForm(url.Values(mf.Value)), files, true
	}

	// Not multipart: fall back to regular form values.
	if err := c.Request.ParseForm(); err != nil {
		pkg.Error(c, domain.NewValidationError("invalid request body", nil))
		return nil, nil, false
	}
	return ParseHouseForm(c.Request.PostForm), nil, true
}
