package api

import (
	"net/http"

	"reader-booking/internal/api/middleware"
	"reader-booking/internal/sandbox"

	"github.com/labstack/echo/v4"
)

// SetupRoutes registers the sandbox's endpoints: the same paths and envelope
// the production backend exposes, so the order engine can be pointed at
// either interchangeably.
func SetupRoutes(e *echo.Echo, jwtSecret string, h *sandbox.Handler) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "reader-booking sandbox"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}

	orderGroup := e.Group("/order", authMiddleware)
	{
		orderGroup.POST("", h.CreateOrder)
		orderGroup.GET("/allOrdersForLoggedUser", h.ListOrdersForLoggedUser)
		orderGroup.PUT("/:orderId", h.MutateOrder) // accept (readerId body) or field update
		orderGroup.PUT("/:orderId/reject", h.RejectOrder)
		orderGroup.DELETE("/:orderId", h.CancelOrder)
	}

	adminGroup := e.Group("/admin", authMiddleware, adminRequired)
	{
		adminGroup.GET("/allOrders", h.ListAllOrders)
		adminGroup.PUT("/:orderId", h.AssignOrder)
		adminGroup.PUT("/:orderId/complete", h.CompleteOrder)
	}
}
