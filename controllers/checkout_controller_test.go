package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/controllers"
	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- mocks ----

type mockCheckoutSvc struct {
	session *models.PaymentSession
	err     *services.ServiceError
	got     *models.CheckoutRequest
}

func (m *mockCheckoutSvc) CreateSession(_ context.Context, req *models.CheckoutRequest) (*models.PaymentSession, *services.ServiceError) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockFulfillmentSvc struct {
	err       *services.ServiceError
	emails    []string
	requestID string
}

func (m *mockFulfillmentSvc) Fulfill(_ context.Context, email, requestID string) *services.ServiceError {
	m.emails = append(m.emails, email)
	m.requestID = requestID
	if m.err != nil {
		return m.err
	}
	return nil
}

// ---- helpers ----

func setupRouter(checkout services.CheckoutService, fulfillment services.FulfillmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	c := controllers.NewCheckoutController(checkout, fulfillment, controllers.Messages{
		Success: "Payment successful!",
		Cancel:  "Payment cancelled.",
	})

	r.POST("/create-checkout-session", c.CreateCheckoutSession)
	r.GET("/success", c.Success)
	r.GET("/cancel", c.Cancel)
	r.GET("/health", controllers.Health)
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestCreateCheckoutSession_Success(t *testing.T) {
	svc := &mockCheckoutSvc{session: &models.PaymentSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/x"}}
	r := setupRouter(svc, &mockFulfillmentSvc{})

	w := postJSON(r, `{"product_name":"Strength Plan","email":"jane@example.com","price":2999}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]interface{}{"id": "cs_test_123"}, resp)

	assert.Equal(t, "Strength Plan", svc.got.ProductName)
	assert.Equal(t, "jane@example.com", svc.got.Email)
	assert.Equal(t, int64(2999), svc.got.Price)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	svc := &mockCheckoutSvc{err: &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid integer: -5"}}
	r := setupRouter(svc, &mockFulfillmentSvc{})

	w := postJSON(r, `{"product_name":"Strength Plan","email":"jane@example.com","price":-5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid integer: -5", resp["error"])
}

func TestCreateCheckoutSession_EmptyFieldsReachService(t *testing.T) {
	svc := &mockCheckoutSvc{session: &models.PaymentSession{ID: "cs"}}
	r := setupRouter(svc, &mockFulfillmentSvc{})

	w := postJSON(r, `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	assert.Empty(t, svc.got.ProductName)
}

func TestCreateCheckoutSession_InvalidJSON(t *testing.T) {
	svc := &mockCheckoutSvc{}
	r := setupRouter(svc, &mockFulfillmentSvc{})

	w := postJSON(r, `{"product_name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Nil(t, svc.got)
}

func TestSuccess_DeliversAndConfirms(t *testing.T) {
	fulfillment := &mockFulfillmentSvc{}
	r := setupRouter(&mockCheckoutSvc{}, fulfillment)

	req := httptest.NewRequest(http.MethodGet, "/success?email=jane.doe%40example.com", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment successful!", w.Body.String())
	assert.Equal(t, []string{"jane.doe@example.com"}, fulfillment.emails)
	assert.Equal(t, "req-42", fulfillment.requestID)
}

func TestSuccess_RefreshDeliversAgain(t *testing.T) {
	fulfillment := &mockFulfillmentSvc{}
	r := setupRouter(&mockCheckoutSvc{}, fulfillment)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/success?email=jane@example.com", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, fulfillment.emails, 2)
}

func TestSuccess_FailureIsBare500(t *testing.T) {
	fulfillment := &mockFulfillmentSvc{err: &services.ServiceError{StatusCode: http.StatusInternalServerError}}
	r := setupRouter(&mockCheckoutSvc{}, fulfillment)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/success?email=jane@example.com", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCancel(t *testing.T) {
	r := setupRouter(&mockCheckoutSvc{}, &mockFulfillmentSvc{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment cancelled.", w.Body.String())
}

func TestHealth(t *testing.T) {
	r := setupRouter(&mockCheckoutSvc{}, &mockFulfillmentSvc{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","service":"checkout-service"}`, w.Body.String())
}
