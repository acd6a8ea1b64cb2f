package main

import (
	"fmt"
	"net/http"
	"strconv"
	"termpay/internal/terminal"

	"github.com/go-chi/chi/v5"
)

type RegisterReaderPayload struct {
	RegistrationCode string `json:"registration_code" validate:"required,max=100"`
	Label            string `json:"label" validate:"omitempty,max=100"`
	Location         string `json:"location" validate:"omitempty,max=100"`
}

type ProcessPaymentPayload struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,max=100"`
}

type SimulatePaymentPayload struct {
	CardNumber string `json:"card_number" validate:"omitempty,numeric,min=12,max=19"`
}

// defaultTestCard is presented when a simulation request names no card.
const defaultTestCard = "4242424242424242"

func (app *application) registerReaderHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterReaderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader, err := app.terminal.RegisterReader(r.Context(), terminal.RegisterReaderRequest{
		RegistrationCode: payload.RegistrationCode,
		Label:            payload.Label,
		Location:         payload.Location,
	})
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("reader registered", "reader_id", reader.ID, "label", reader.Label)

	if err := app.jsonResponse(w, http.StatusCreated, reader); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listReadersHandler forwards the provider's reader list, filtered by
// location / status / device_type query params.
func (app *application) listReadersHandler(w http.ResponseWriter, r *http.Request) {
	filter := terminal.ReaderFilter{
		Location:   r.URL.Query().Get("location"),
		Status:     r.URL.Query().Get("status"),
		DeviceType: r.URL.Query().Get("device_type"),
		Limit:      25,
	}

	if filter.Status != "" && filter.Status != "online" && filter.Status != "offline" {
		app.badRequestResponse(w, r, fmt.Errorf("invalid status filter: %s", filter.Status))
		return
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 1 || limit > 100 {
			app.badRequestResponse(w, r, fmt.Errorf("limit must be between 1 and 100"))
			return
		}
		filter.Limit = limit
	}

	readers, err := app.terminal.ListReaders(r.Context(), filter)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, readers); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "readerID")

	reader, err := app.terminal.GetReader(r.Context(), readerID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, reader); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "readerID")

	if err := app.terminal.DeleteReader(r.Context(), readerID); err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("reader deleted", "reader_id", readerID)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{"id": readerID, "deleted": true}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// processPaymentOnReaderHandler hands an existing payment intent to a
// reader so it starts collecting the card.
func (app *application) processPaymentOnReaderHandler(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "readerID")

	var payload ProcessPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reader, err := app.terminal.ProcessPayment(r.Context(), readerID, payload.PaymentIntentID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment handed to reader", "reader_id", readerID, "intent_id", payload.PaymentIntentID)

	if err := app.jsonResponse(w, http.StatusOK, reader); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) cancelReaderActionHandler(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "readerID")

	reader, err := app.terminal.CancelReaderAction(r.Context(), readerID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("reader action canceled", "reader_id", readerID)

	if err := app.jsonResponse(w, http.StatusOK, reader); err != nil {
		app.internalServerError(w, r, err)
	}
}

// simulatePaymentHandler presents a test card on a simulated reader via the
// provider's test helpers. Refused outright against a live-mode key.
func (app *application) simulatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	if app.config.stripe.livemode {
		app.forbiddenResponse(w, r, "simulated payments are not available in live mode")
		return
	}

	readerID := chi.URLParam(r, "readerID")

	var payload SimulatePaymentPayload
	if err := readJSON(w, r, &payload); err != nil && !isEmptyBody(err) {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cardNumber := payload.CardNumber
	if cardNumber == "" {
		cardNumber = defaultTestCard
	}

	reader, err := app.terminal.SimulatePayment(r.Context(), readerID, terminal.SimulatedCard{
		Number: cardNumber,
	})
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("simulated card presented", "reader_id", readerID)

	if err := app.jsonResponse(w, http.StatusOK, reader); err != nil {
		app.internalServerError(w, r, err)
	}
}
