package main

import (
	"fmt"
	"net/http"
	"strconv"
	"termpay/internal/terminal"

	"github.com/go-chi/chi/v5"
)

type LocationAddressPayload struct {
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"omitempty,max=200"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

type CreateLocationPayload struct {
	DisplayName string                 `json:"display_name" validate:"required,max=100"`
	Address     LocationAddressPayload `json:"address" validate:"required"`
}

func (app *application) createLocationHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateLocationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	location, err := app.terminal.CreateLocation(r.Context(), terminal.CreateLocationRequest{
		DisplayName: payload.DisplayName,
		Address: terminal.Address{
			Line1:      payload.Address.Line1,
			Line2:      payload.Address.Line2,
			City:       payload.Address.City,
			State:      payload.Address.State,
			PostalCode: payload.Address.PostalCode,
			Country:    payload.Address.Country,
		},
	})
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("location created", "location_id", location.ID, "display_name", location.DisplayName)

	if err := app.jsonResponse(w, http.StatusCreated, location); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listLocationsHandler(w http.ResponseWriter, r *http.Request) {
	var limit int64 = 25
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			app.badRequestResponse(w, r, fmt.Errorf("limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}

	locations, err := app.terminal.ListLocations(r.Context(), limit)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, locations); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getLocationHandler(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	location, err := app.terminal.GetLocation(r.Context(), locationID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, location); err != nil {
		app.internalServerError(w, r, err)
	}
}
