package controllers

import (
	"net/http"

	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

type Messages struct {
	Success string
	Cancel  string
}

// CheckoutController handles the storefront's payment round trip.
type CheckoutController struct {
	checkout    services.CheckoutService
	fulfillment services.FulfillmentService
	messages    Messages
}

func NewCheckoutController(checkout services.CheckoutService, fulfillment services.FulfillmentService, messages Messages) *CheckoutController {
	return &CheckoutController{
		checkout:    checkout,
		fulfillment: fulfillment,
		messages:    messages,
	}
}

// CreateCheckoutSession handles POST /create-checkout-session
func (cc *CheckoutController) CreateCheckoutSession(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, svcErr := cc.checkout.CreateSession(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": sess.ID})
}

// Success handles GET /success?email=
func (cc *CheckoutController) Success(ctx *gin.Context) {
	email := ctx.Query("email")

	if svcErr := cc.fulfillment.Fulfill(ctx.Request.Context(), email, ctx.GetString(middleware.RequestIDKey)); svcErr != nil {
		ctx.AbortWithStatus(svcErr.StatusCode)
		return
	}

	ctx.String(http.StatusOK, cc.messages.Success)
}

// Cancel handles GET /cancel
func (cc *CheckoutController) Cancel(ctx *gin.Context) {
	ctx.String(http.StatusOK, cc.messages.Cancel)
}

func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "OK", "service": "checkout-service"})
}
