package httpt

import (
	"context"
	"errors"
	"net/http"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

func (h *OrderHandler) handleServiceError(c *gin.Context, err error, op string) {
	log := h.log.Ctx(c.Request.Context())

	var validationErr *wizard.ValidationError
	var stepErr *wizard.ErrStepMismatch

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ValidationResponse{
			Message: "Validation failed",
			Errors:  validationErr.Issues,
		})
	case errors.As(err, &stepErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: stepErr.Error()})
	case errors.Is(err, entity.ErrEmailTaken):
		// The duplicate-email conflict is presented as a field error so the
		// form can highlight the email input instead of a generic banner.
		c.JSON(http.StatusConflict, ValidationResponse{
			Message: "Email already registered",
			Errors: wizard.Issues{
				{Field: "email", Message: "An account with this email already exists. Log in or use a different email."},
			},
		})
	case errors.Is(err, entity.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Draft not found or expired"})
	case errors.Is(err, entity.ErrDataNotFound):
		log.LogAttrs(c.Request.Context(), logger.WarnLevel, "order not found",
			logger.String("order_uid", c.Param("order_uid")),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
	case errors.Is(err, entity.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, entity.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid order data"})
	case errors.Is(err, context.DeadlineExceeded):
		log.LogAttrs(c.Request.Context(), logger.WarnLevel, "request timeout",
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		log.LogAttrs(c.Request.Context(), logger.ErrorLevel, op+" failed",
			logger.Any("error", err),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal service error"})
	}
}

func (h *OrderHandler) handleBindError(c *gin.Context, err error) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "malformed request body",
		logger.Any("error", err),
		logger.String("path", c.Request.URL.Path),
		logger.String("remote_addr", c.ClientIP()),
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed request body"})
}

func (h *OrderHandler) handleInvalidUUID(c *gin.Context, op, value string) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "invalid UID format",
		logger.String("op", op),
		logger.String("value", value),
		logger.String("remote_addr", c.ClientIP()),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid UID format"})
}

// respondIssues sends a 400 with field-scoped issues from a wizard rule-set.
func (h *OrderHandler) respondIssues(c *gin.Context, issues wizard.Issues) {
	c.JSON(http.StatusBadRequest, ValidationResponse{
		Message: "Validation failed",
		Errors:  issues,
	})
}
