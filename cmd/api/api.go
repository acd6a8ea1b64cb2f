package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"termpay/internal/auth"
	"termpay/internal/ratelimiter"
	"termpay/internal/reference"
	"termpay/internal/terminal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	terminal      terminal.Gateway
	authenticator auth.Authenticator
	refs          *reference.Generator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	env         string
	frontendURL string
	stripe      stripeConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type stripeConfig struct {
	secretKey     string
	webhookSecret string
	livemode      bool
}

type authConfig struct {
	basic  basicConfig
	token  tokenConfig
	client clientConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type clientConfig struct {
	id     string
	secret string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(app.RateLimiterMiddleware)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// The provider cannot send a bearer token; the signature check inside
		// the handler is the authentication.
		r.Post("/webhooks/terminal", app.terminalWebhookHandler)

		// Public route
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/token", app.createTokenHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Route("/payment-intents", func(r chi.Router) {
				r.Post("/", app.createPaymentIntentHandler)
				r.Get("/{intentID}", app.getPaymentIntentHandler)
				r.Post("/{intentID}/capture", app.capturePaymentIntentHandler)
				r.Post("/{intentID}/cancel", app.cancelPaymentIntentHandler)
			})

			r.Route("/readers", func(r chi.Router) {
				r.Post("/", app.registerReaderHandler)
				r.Get("/", app.listReadersHandler)

				r.Route("/{readerID}", func(r chi.Router) {
					r.Get("/", app.getReaderHandler)
					r.Delete("/", app.deleteReaderHandler)
					r.Post("/process-payment-intent", app.processPaymentOnReaderHandler)
					r.Post("/cancel-action", app.cancelReaderActionHandler)
					r.Post("/simulate-payment", app.simulatePaymentHandler)
				})
			})

			r.Post("/connection-tokens", app.createConnectionTokenHandler)

			r.Route("/locations", func(r chi.Router) {
				r.Post("/", app.createLocationHandler)
				r.Get("/", app.listLocationsHandler)
				r.Get("/{locationID}", app.getLocationHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
