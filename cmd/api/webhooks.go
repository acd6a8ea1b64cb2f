package main

import (
	"fmt"
	"io"
	"net/http"
)

// terminalWebhookHandler receives provider events. The body is read raw and
// handed to the gateway for signature verification before anything is
// decoded; a bad signature is a 400 so the provider does not retry forged
// deliveries forever.
func (app *application) terminalWebhookHandler(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("reading webhook body: %w", err))
		return
	}

	event, err := app.terminal.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		app.logger.Warnw("webhook rejected", "error", err.Error())
		writeJSONError(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	switch event.Type {
	case "terminal.reader.action_succeeded":
		app.logger.Infow("reader action succeeded", "event_id", event.ID, "livemode", event.Livemode)
	case "terminal.reader.action_failed":
		app.logger.Warnw("reader action failed", "event_id", event.ID, "livemode", event.Livemode)
	case "payment_intent.succeeded",
		"payment_intent.amount_capturable_updated",
		"payment_intent.payment_failed",
		"payment_intent.canceled":
		app.logger.Infow("payment intent event", "event_id", event.ID, "type", event.Type)
	default:
		app.logger.Infow("unhandled webhook event", "event_id", event.ID, "type", event.Type)
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"received": event.ID}); err != nil {
		app.internalServerError(w, r, err)
	}
}
