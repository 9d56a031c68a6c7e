package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *OrderHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := h.router.Group("/api")

	wizard := api.Group("/wizard", h.authOptionalMiddleware())
	{
		wizard.POST("", h.startDraftHandler)
		wizard.GET("/:draft_id", h.getDraftHandler)
		wizard.POST("/:draft_id/category", h.selectCategoryHandler)
		wizard.POST("/:draft_id/vehicle/mode", h.setVehicleModeHandler)
		wizard.POST("/:draft_id/vehicle", h.submitVehicleHandler)
		wizard.POST("/:draft_id/parts/add", h.addPartRowHandler)
		wizard.POST("/:draft_id/parts/remove", h.removePartRowHandler)
		wizard.POST("/:draft_id/parts/quantity", h.setPartQuantityHandler)
		wizard.POST("/:draft_id/parts", h.submitPartsHandler)
		wizard.POST("/:draft_id/back", h.backHandler)
		wizard.POST("/:draft_id/submit", h.submitDraftHandler)
	}

	api.POST("/orders", h.authRequiredMiddleware(), h.createOrderHandler)
	api.POST("/guest-order", h.createGuestOrderHandler)
	api.GET("/orders/:order_uid", h.authOptionalMiddleware(), h.getOrderHandler)

	api.POST("/register", h.registerHandler)
	api.POST("/login", h.loginHandler)
	api.GET("/user", h.authRequiredMiddleware(), h.getUserHandler)
}
