package main

import "net/http"

type CreateConnectionTokenPayload struct {
	Location string `json:"location" validate:"omitempty,max=100"`
}

// createConnectionTokenHandler mints the short-lived secret a point-of-sale
// SDK needs before it can talk to a reader. The body is optional; a
// location scopes the token to that location's readers.
func (app *application) createConnectionTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateConnectionTokenPayload
	if err := readJSON(w, r, &payload); err != nil && !isEmptyBody(err) {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.terminal.CreateConnectionToken(r.Context(), payload.Location)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, token); err != nil {
		app.internalServerError(w, r, err)
	}
}
