package main

import "net/http"

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	mode := "test"
	if app.config.stripe.livemode {
		mode = "live"
	}

	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
		"mode":    mode,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
