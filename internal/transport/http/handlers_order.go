package httpt

import (
	"context"
	"net/http"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
	_submitContextTimeout  = 3 * time.Second
)

func submitContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), _submitContextTimeout)
}

// createOrderHandler is the one-shot authenticated endpoint: the whole
// payload arrives in one POST and runs through the same combined rule-set
// the wizard applies step by step.
func (h *OrderHandler) createOrderHandler(c *gin.Context) {
	const op = "transport.createOrderHandler"

	user := currentUser(c)

	var sub wizard.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.handleBindError(c, err)
		return
	}

	ctx, cancel := submitContext(c)
	defer cancel()

	order, _, err := h.orders.PlaceOrder(ctx, user, &sub)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, orderResponse{Order: order})
}

// createGuestOrderHandler places an order without authentication. When the
// payload asks for an account the duplicate-email conflict comes back as a
// 409 with a field error on email.
func (h *OrderHandler) createGuestOrderHandler(c *gin.Context) {
	const op = "transport.createGuestOrderHandler"

	var sub wizard.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.handleBindError(c, err)
		return
	}

	ctx, cancel := submitContext(c)
	defer cancel()

	order, createdUser, err := h.orders.PlaceOrder(ctx, nil, &sub)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	resp := orderResponse{Order: order, NewAccount: createdUser != nil}
	if createdUser != nil {
		if token, tokenErr := h.auth.Token(createdUser); tokenErr == nil {
			resp.Token = token
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) getOrderHandler(c *gin.Context) {
	const op = "transport.getOrderHandler"

	log := h.log.Ctx(c.Request.Context())
	orderUIDStr := c.Param("order_uid")

	orderUID, err := uuid.Parse(orderUIDStr)
	if err != nil {
		h.handleInvalidUUID(c, op, orderUIDStr)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	order, err := h.orders.GetOrder(ctx, orderUID)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	// Orders tied to an account are only visible to that account. Guest
	// orders are addressable by their unguessable uid alone.
	if order.UserID != nil {
		user := currentUser(c)
		if user == nil || user.ID != *order.UserID {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
			return
		}
	}

	log.LogAttrs(ctx, logger.InfoLevel, "order retrieved successfully",
		logger.String("order_uid", orderUIDStr),
	)

	c.JSON(http.StatusOK, order)
}
