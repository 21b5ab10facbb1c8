package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if s := ctx.GetString("request_id"); s != "" {
		return s
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, "forbidden", message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string, details interface{}) {
	RespondError(ctx, http.StatusConflict, code, message, details)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondServiceError maps the service error taxonomy onto HTTP. Anything
// outside the taxonomy is logged and reported as a 500 with fallback as message.
func RespondServiceError(ctx *gin.Context, err error, fallback string) {
	var (
		notFound  *apperr.NotFoundError
		duplicate *apperr.EmailDuplicationError
		invalid   *apperr.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		RespondError(ctx, http.StatusNotFound, "not_found", err.Error(), gin.H{"entity": notFound.Entity, "id": notFound.ID})
	case errors.Is(err, apperr.ErrNotFound):
		RespondNotFound(ctx, err.Error())
	case errors.As(err, &duplicate):
		RespondConflict(ctx, "email_duplicated", "Email is already in use.", gin.H{"email": duplicate.Email})
	case errors.As(err, &invalid):
		RespondBadRequest(ctx, "Invalid request", gin.H{"fields": []FieldError{{Field: invalid.Field, Rule: "invalid", Message: invalid.Reason}}})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
	case errors.Is(err, apperr.ErrUnauthenticated):
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
	case errors.Is(err, apperr.ErrForbidden):
		RespondForbidden(ctx, "You may not modify this resource")
	default:
		_ = ctx.Error(err)
		slog.Default().ErrorContext(ctx.Request.Context(), fallback, "err", err, "request_id", requestIDFrom(ctx))
		RespondInternal(ctx, fallback)
	}
}
