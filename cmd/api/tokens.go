package main

import (
	"crypto/subtle"
	"fmt"
	"net/http"
)

type CreateTokenPayload struct {
	ClientID     string `json:"client_id" validate:"required,max=100"`
	ClientSecret string `json:"client_secret" validate:"required,max=200"`
}

// createTokenHandler exchanges the configured client credentials for a
// short-lived bearer token used by every forwarding endpoint.
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	idOK := subtle.ConstantTimeCompare([]byte(payload.ClientID), []byte(app.config.auth.client.id)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(payload.ClientSecret), []byte(app.config.auth.client.secret)) == 1
	if !idOK || !secretOK {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid client credentials"))
		return
	}

	token, err := app.authenticator.GenerateToken(payload.ClientID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(app.config.auth.token.exp.Seconds()),
	}

	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
