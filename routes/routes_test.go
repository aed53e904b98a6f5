package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checkout-service/controllers"
	"checkout-service/models"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubCheckout struct{}

func (stubCheckout) CreateSession(context.Context, *models.CheckoutRequest) (*models.PaymentSession, *services.ServiceError) {
	return &models.PaymentSession{ID: "cs"}, nil
}

type stubFulfillment struct{}

func (stubFulfillment) Fulfill(context.Context, string, string) *services.ServiceError { return nil }

func TestRegisterCheckoutRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cc := controllers.NewCheckoutController(stubCheckout{}, stubFulfillment{}, controllers.Messages{Success: "ok", Cancel: "cancelled"})
	routes.RegisterCheckoutRoutes(r, cc, 1)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/success?email=jane@example.com", "", http.StatusOK},
		{http.MethodGet, "/cancel", "", http.StatusOK},
		{http.MethodPost, "/create-checkout-session", `{"product_name":"p","price":1}`, http.StatusOK},
		// burst of one per client
		{http.MethodPost, "/create-checkout-session", `{"product_name":"p","price":1}`, http.StatusTooManyRequests},
		{http.MethodGet, "/create-checkout-session", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}
