package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brightpaw/booking-inbox/internal/http/handlers"
	"github.com/brightpaw/booking-inbox/internal/intake"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	orch := intake.NewOrchestrator(intake.OrchestratorConfig{Location: time.UTC})
	return New(Config{
		Webhooks:   handlers.NewWebhookHandler(handlers.WebhookConfig{Orchestrator: orch}),
		Admin:      handlers.NewAdminHandler(handlers.AdminConfig{}),
		AdminToken: "s3cret",
	})
}

func TestHealth(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
