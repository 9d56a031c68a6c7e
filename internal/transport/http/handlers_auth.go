package httpt

import (
	"context"
	"net/http"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *OrderHandler) registerHandler(c *gin.Context) {
	const op = "transport.registerHandler"

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	ctx, cancel := submitContext(c)
	defer cancel()

	user, token, err := h.auth.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *OrderHandler) loginHandler(c *gin.Context) {
	const op = "transport.loginHandler"

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	ctx, cancel := submitContext(c)
	defer cancel()

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *OrderHandler) getUserHandler(c *gin.Context) {
	const op = "transport.getUserHandler"

	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	uids, err := h.orders.ListOrderUIDs(ctx, user.ID)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	uidStrs := make([]string, 0, len(uids))
	for _, uid := range uids {
		uidStrs = append(uidStrs, uid.String())
	}

	c.JSON(http.StatusOK, userResponse{User: user, OrderUIDs: uidStrs})
}
