package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCheckoutRoutes sets up the storefront-facing routes.
func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController, checkoutRatePerMinute int) {
	r.GET("/health", controllers.Health)

	r.POST("/create-checkout-session", middleware.RateLimit(checkoutRatePerMinute), cc.CreateCheckoutSession)

	// Stripe redirects the buyer here; both are plain browser GETs.
	r.GET("/success", cc.Success)
	r.GET("/cancel", cc.Cancel)
}
