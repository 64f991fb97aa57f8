package pkg

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/eimonte/estate/internal/domain"
)

// Response is the standard JSON envelope for API responses.
//
// Data is typed any on purpose: omitempty then only drops a nil value, so an
// empty (non-nil) slice still serializes as "data": [] — public list endpoints
// must never hide an empty result behind a missing key.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends a 200 JSON response with the given data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created sends a 201 JSON response with the given data.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List sends a 200 JSON response for list results, including the item count.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    items,
		Count:   &n,
	})
}

// Message sends a 200 JSON response with only a message, used by mutations
// that return no payload (e.g. soft delete).
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// Error sends a JSON error response. If err is a *domain.AppError, its code is
// mapped to the appropriate HTTP status and any per-field details are included;
// otherwise 500 is returned. The underlying error detail is exposed only in
// debug mode — production callers get the generic message.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	resp := Response{Success: false, Message: "internal server error"}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Errors = appErr.Fields
		if gin.Mode() == gin.DebugMode && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
	} else if err != nil && gin.Mode() == gin.DebugMode {
		resp.Error = err.Error()
	}

	c.JSON(status, resp)
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it sends a validation error response and returns false.
// Usage in handlers:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		ValidationError(c, err)
		return false
	}
	return true
}

// ValidationError sends a 400 JSON response with per-field validation error
// details when err is a validator.ValidationErrors; otherwise a generic 400.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fieldErrors[toSnake(fe.Field())] = msg
	}

	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "validation error",
		Errors:  fieldErrors,
	})
}

// toSnake lowercases an exported struct field name for error keys
// (Email -> email, TotalFloors -> total_floors).
func toSnake(s string) string {
	out := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			ch += 'a' - 'A'
		}
		out = append(out, ch)
	}
	return string(out)
}
