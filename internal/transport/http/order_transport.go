package httpt

import (
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/metric"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders     *service.OrderService
	auth       *service.AuthService
	log        logger.Logger
	metrics    metric.HTTP
	wizMetrics metric.Wizard
	router     *gin.Engine
}

func NewOrderHandler(
	orders *service.OrderService,
	auth *service.AuthService,
	log logger.Logger,
	metrics metric.HTTP,
	wizMetrics metric.Wizard,
) *OrderHandler {
	h := &OrderHandler{
		orders:     orders,
		auth:       auth,
		log:        log,
		metrics:    metrics,
		wizMetrics: wizMetrics,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *OrderHandler) Engine() *gin.Engine {
	return h.router
}
