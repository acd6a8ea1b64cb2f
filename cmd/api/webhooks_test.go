package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"termpay/internal/terminal"
)

func TestTerminalWebhook(t *testing.T) {
	t.Run("acks a verified event", func(t *testing.T) {
		var gotPayload []byte
		var gotSignature string
		gw := &mockGateway{
			VerifyWebhookFunc: func(payload []byte, signature string) (*terminal.WebhookEvent, error) {
				gotPayload = payload
				gotSignature = signature
				return &terminal.WebhookEvent{
					ID:      "evt_1",
					Type:    "terminal.reader.action_succeeded",
					Created: time.Now().UTC(),
				}, nil
			},
		}
		app := newTestApplication(t, gw)
		mux := app.mount()

		body := `{"id":"evt_1","type":"terminal.reader.action_succeeded"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/terminal", strings.NewReader(body))
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		rr := executeRequest(req, mux)

		checkResponseCode(t, http.StatusOK, rr.Code)
		if string(gotPayload) != body {
			t.Errorf("expected the raw body to reach the verifier, got %q", gotPayload)
		}
		if gotSignature != "t=1,v1=abc" {
			t.Errorf("expected the signature header to be forwarded, got %q", gotSignature)
		}
		if !strings.Contains(rr.Body.String(), "evt_1") {
			t.Errorf("expected the ack to carry the event id, got %s", rr.Body.String())
		}
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		gw := &mockGateway{
			VerifyWebhookFunc: func(payload []byte, signature string) (*terminal.WebhookEvent, error) {
				return nil, &terminal.Error{Status: http.StatusBadRequest, Message: "webhook signature verification failed"}
			},
		}
		app := newTestApplication(t, gw)
		mux := app.mount()

		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/terminal", strings.NewReader(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=forged")
		rr := executeRequest(req, mux)

		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("does not require a bearer token", func(t *testing.T) {
		gw := &mockGateway{
			VerifyWebhookFunc: func(payload []byte, signature string) (*terminal.WebhookEvent, error) {
				return &terminal.WebhookEvent{ID: "evt_2", Type: "payment_intent.succeeded"}, nil
			},
		}
		app := newTestApplication(t, gw)
		mux := app.mount()

		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/terminal", strings.NewReader(`{}`))
		rr := executeRequest(req, mux)

		checkResponseCode(t, http.StatusOK, rr.Code)
	})
}
