package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", PaymentWebhookAuth(), func(c *gin.Context) {
		// The middleware must leave the body readable.
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	return r
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookAuthValidSignature(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("PAYMENT_MODE", "live")

	body := `{"order_number":"SP-20260830-0001","status":"paid"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", sign("hook-secret", body))

	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())
}

func TestWebhookAuthBadSignature(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("PAYMENT_MODE", "live")

	body := `{"order_number":"SP-20260830-0001","status":"paid"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Webhook-Signature", sign("wrong-secret", body))

	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthMissingSignature(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("PAYMENT_MODE", "live")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookAuthSandboxSkipsVerification(t *testing.T) {
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("PAYMENT_MODE", "sandbox")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	webhookRouter().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
