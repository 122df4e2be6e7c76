package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/pkg/validation"
)

// BindAndValidate decodes the JSON body into req, normalizes and validates
// it. On failure the error response is written and false is returned.
func BindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge, "Request body is too large")))
		case errors.Is(err, io.EOF):
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Request body is required")))
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format").WithDetails(err.Error())))
		}
		return false
	}

	if err := validation.Request(req); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}

// BindQuery decodes and validates query-string parameters into req.
func BindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid query parameters").WithDetails(err.Error())))
		return false
	}
	if err := validation.Request(req); err != nil {
		HandleAPIError(c, err)
		return false
	}
	return true
}
