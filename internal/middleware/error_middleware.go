package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first sentinel found in the
// error chain decides the response.
var errorMappings = []errorMapping{
	{apperrors.ErrIncorrectPassword, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Current password is incorrect"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrRegistrationClosed, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event is not open for registration"},
	{apperrors.ErrRegistrationDeadline, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Registration deadline has passed"},
	{apperrors.ErrNotRegistered, http.StatusBadRequest, dto.ErrorCodeBadRequest, "You are not registered for this event"},
	{apperrors.ErrWaitlistEmpty, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Waitlist is empty"},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Not authorized, no token"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Not authorized, token failed"},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account has been deactivated"},

	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "User already exists with this email"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeConflict, "You are already registered for this event"},
	{apperrors.ErrEventFull, http.StatusConflict, dto.ErrorCodeConflict, "Event is full"},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict, dto.ErrorCodeConflict, "Invalid status transition"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
}

// HandleAPIError writes the error envelope for err and aborts the request.
func HandleAPIError(c *gin.Context, err error) {
	if verr, ok := apperrors.AsValidationError(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(verr))
		return
	}
	if errors.Is(err, apperrors.ErrValidationFailed) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOf(err, "Validation failed"))
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := dto.NewErrorDetail(m.code, messageOf(err, m.message))
			if ce := customError(err); ce != nil && ce.Details != nil {
				detail = detail.WithDetails(ce.Details)
			}
			c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("requestId", c.GetString(RequestIDKey)).
		Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Server error")))
}

func customError(err error) *apperrors.CustomError {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// messageOf prefers the message a CustomError carries for the client.
func messageOf(err error, fallback string) string {
	if ce := customError(err); ce != nil && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
