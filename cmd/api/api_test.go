package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"termpay/internal/auth"
	"termpay/internal/ratelimiter"
	"termpay/internal/reference"
	"termpay/internal/terminal"

	"go.uber.org/zap"
)

var errNotStubbed = errors.New("gateway method not stubbed")

// mockGateway implements terminal.Gateway for handler tests. Stub only the
// methods a test exercises; anything else fails loudly.
type mockGateway struct {
	CreatePaymentIntentFunc   func(ctx context.Context, req terminal.CreateIntentRequest) (*terminal.PaymentIntent, error)
	GetPaymentIntentFunc      func(ctx context.Context, id string) (*terminal.PaymentIntent, error)
	CapturePaymentIntentFunc  func(ctx context.Context, id string, req terminal.CaptureRequest) (*terminal.PaymentIntent, error)
	CancelPaymentIntentFunc   func(ctx context.Context, id, reason string) (*terminal.PaymentIntent, error)
	RegisterReaderFunc        func(ctx context.Context, req terminal.RegisterReaderRequest) (*terminal.Reader, error)
	GetReaderFunc             func(ctx context.Context, id string) (*terminal.Reader, error)
	ListReadersFunc           func(ctx context.Context, filter terminal.ReaderFilter) ([]terminal.Reader, error)
	DeleteReaderFunc          func(ctx context.Context, id string) error
	ProcessPaymentFunc        func(ctx context.Context, readerID, intentID string) (*terminal.Reader, error)
	CancelReaderActionFunc    func(ctx context.Context, readerID string) (*terminal.Reader, error)
	SimulatePaymentFunc       func(ctx context.Context, readerID string, card terminal.SimulatedCard) (*terminal.Reader, error)
	CreateConnectionTokenFunc func(ctx context.Context, location string) (*terminal.ConnectionToken, error)
	CreateLocationFunc        func(ctx context.Context, req terminal.CreateLocationRequest) (*terminal.Location, error)
	GetLocationFunc           func(ctx context.Context, id string) (*terminal.Location, error)
	ListLocationsFunc         func(ctx context.Context, limit int64) ([]terminal.Location, error)
	VerifyWebhookFunc         func(payload []byte, signature string) (*terminal.WebhookEvent, error)
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, req terminal.CreateIntentRequest) (*terminal.PaymentIntent, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) GetPaymentIntent(ctx context.Context, id string) (*terminal.PaymentIntent, error) {
	if m.GetPaymentIntentFunc != nil {
		return m.GetPaymentIntentFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) CapturePaymentIntent(ctx context.Context, id string, req terminal.CaptureRequest) (*terminal.PaymentIntent, error) {
	if m.CapturePaymentIntentFunc != nil {
		return m.CapturePaymentIntentFunc(ctx, id, req)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) CancelPaymentIntent(ctx context.Context, id, reason string) (*terminal.PaymentIntent, error) {
	if m.CancelPaymentIntentFunc != nil {
		return m.CancelPaymentIntentFunc(ctx, id, reason)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) RegisterReader(ctx context.Context, req terminal.RegisterReaderRequest) (*terminal.Reader, error) {
	if m.RegisterReaderFunc != nil {
		return m.RegisterReaderFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) GetReader(ctx context.Context, id string) (*terminal.Reader, error) {
	if m.GetReaderFunc != nil {
		return m.GetReaderFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) ListReaders(ctx context.Context, filter terminal.ReaderFilter) ([]terminal.Reader, error) {
	if m.ListReadersFunc != nil {
		return m.ListReadersFunc(ctx, filter)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) DeleteReader(ctx context.Context, id string) error {
	if m.DeleteReaderFunc != nil {
		return m.DeleteReaderFunc(ctx, id)
	}
	return errNotStubbed
}

func (m *mockGateway) ProcessPayment(ctx context.Context, readerID, intentID string) (*terminal.Reader, error) {
	if m.ProcessPaymentFunc != nil {
		return m.ProcessPaymentFunc(ctx, readerID, intentID)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) CancelReaderAction(ctx context.Context, readerID string) (*terminal.Reader, error) {
	if m.CancelReaderActionFunc != nil {
		return m.CancelReaderActionFunc(ctx, readerID)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) SimulatePayment(ctx context.Context, readerID string, card terminal.SimulatedCard) (*terminal.Reader, error) {
	if m.SimulatePaymentFunc != nil {
		return m.SimulatePaymentFunc(ctx, readerID, card)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) CreateConnectionToken(ctx context.Context, location string) (*terminal.ConnectionToken, error) {
	if m.CreateConnectionTokenFunc != nil {
		return m.CreateConnectionTokenFunc(ctx, location)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) CreateLocation(ctx context.Context, req terminal.CreateLocationRequest) (*terminal.Location, error) {
	if m.CreateLocationFunc != nil {
		return m.CreateLocationFunc(ctx, req)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) GetLocation(ctx context.Context, id string) (*terminal.Location, error) {
	if m.GetLocationFunc != nil {
		return m.GetLocationFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) ListLocations(ctx context.Context, limit int64) ([]terminal.Location, error) {
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc(ctx, limit)
	}
	return nil, errNotStubbed
}

func (m *mockGateway) VerifyWebhook(payload []byte, signature string) (*terminal.WebhookEvent, error) {
	if m.VerifyWebhookFunc != nil {
		return m.VerifyWebhookFunc(payload, signature)
	}
	return nil, errNotStubbed
}

func newTestApplication(t *testing.T, gw terminal.Gateway) *application {
	t.Helper()

	refs, err := reference.NewGenerator("test-salt")
	if err != nil {
		t.Fatalf("reference.NewGenerator: %v", err)
	}

	cfg := config{
		addr: ":0",
		env:  "test",
		stripe: stripeConfig{
			secretKey:     "sk_test_123",
			webhookSecret: "whsec_test",
		},
		auth: authConfig{
			basic:  basicConfig{user: "admin", pass: "admin"},
			token:  tokenConfig{secret: "test-secret", exp: time.Hour, iss: "termpay"},
			client: clientConfig{id: "pos-1", secret: "pos-secret"},
		},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: 100,
			TimeFrame:            5 * time.Second,
			Enabled:              false,
		},
	}

	return &application{
		config:        cfg,
		logger:        zap.NewNop().Sugar(),
		terminal:      gw,
		authenticator: auth.NewJWTAuthenticator(cfg.auth.token.secret, cfg.auth.token.iss, cfg.auth.token.iss, cfg.auth.token.exp),
		refs:          refs,
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected response code %d, got %d", expected, actual)
	}
}

// bearer returns an Authorization header value accepted by AuthTokenMiddleware.
func bearer(t *testing.T, app *application) string {
	t.Helper()
	token, err := app.authenticator.GenerateToken(app.config.auth.client.id)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}
