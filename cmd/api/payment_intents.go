package main

import (
	"net/http"
	"strings"
	"termpay/internal/terminal"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CreatePaymentIntentPayload struct {
	Amount        string            `json:"amount" validate:"required"`
	Currency      string            `json:"currency" validate:"required,iso4217"`
	Description   string            `json:"description" validate:"omitempty,max=500"`
	CaptureMethod string            `json:"capture_method" validate:"omitempty,oneof=automatic manual"`
	Metadata      map[string]string `json:"metadata" validate:"omitempty,max=20"`
}

type CapturePaymentIntentPayload struct {
	// AmountToCapture is a decimal string in major units, like the create
	// payload's amount; empty captures the full amount. The currency sizes
	// the minor units, so it must accompany a partial amount.
	AmountToCapture string `json:"amount_to_capture" validate:"omitempty"`
	Currency        string `json:"currency" validate:"required_with=AmountToCapture,omitempty,iso4217"`
}

type CancelPaymentIntentPayload struct {
	Reason string `json:"reason" validate:"omitempty,oneof=duplicate fraudulent requested_by_customer abandoned"`
}

// createPaymentIntentHandler forwards to the provider's "create payment
// intent" call with payment method type card_present. Amounts arrive as
// decimal strings in major units and are converted to minor units here.
func (app *application) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePaymentIntentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	currency := strings.ToLower(payload.Currency)
	amount, err := terminal.MinorUnits(payload.Amount, currency)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	captureMethod := payload.CaptureMethod
	if captureMethod == "" {
		// Card-present flows confirm on the reader and capture afterwards.
		captureMethod = "manual"
	}

	idempotencyKey := r.Header.Get("X-Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	req := terminal.CreateIntentRequest{
		Amount:         amount,
		Currency:       currency,
		Description:    payload.Description,
		CaptureMethod:  captureMethod,
		Reference:      app.refs.Generate(),
		IdempotencyKey: idempotencyKey,
		Metadata:       payload.Metadata,
	}

	intent, err := app.terminal.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment intent created",
		"intent_id", intent.ID,
		"reference", req.Reference,
		"client", getClientFromContext(r),
	)

	if err := app.jsonResponse(w, http.StatusCreated, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intentID")

	intent, err := app.terminal.GetPaymentIntent(r.Context(), intentID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) capturePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intentID")

	var payload CapturePaymentIntentPayload
	if err := readJSON(w, r, &payload); err != nil && !isEmptyBody(err) {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var amountToCapture int64
	if payload.AmountToCapture != "" {
		amount, err := terminal.MinorUnits(payload.AmountToCapture, strings.ToLower(payload.Currency))
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		amountToCapture = amount
	}

	idempotencyKey := r.Header.Get("X-Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	intent, err := app.terminal.CapturePaymentIntent(r.Context(), intentID, terminal.CaptureRequest{
		AmountToCapture: amountToCapture,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment intent captured", "intent_id", intent.ID, "amount_received", intent.AmountReceived)

	if err := app.jsonResponse(w, http.StatusOK, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) cancelPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intentID")

	var payload CancelPaymentIntentPayload
	if err := readJSON(w, r, &payload); err != nil && !isEmptyBody(err) {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	intent, err := app.terminal.CancelPaymentIntent(r.Context(), intentID, payload.Reason)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment intent canceled", "intent_id", intent.ID, "reason", payload.Reason)

	if err := app.jsonResponse(w, http.StatusOK, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}
