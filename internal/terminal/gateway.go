package terminal

import "context"

// Gateway is the single seam between the HTTP layer and the hosted
// payment-terminal provider. Handlers never touch the vendor SDK directly.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, id string, req CaptureRequest) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id, reason string) (*PaymentIntent, error)

	RegisterReader(ctx context.Context, req RegisterReaderRequest) (*Reader, error)
	GetReader(ctx context.Context, id string) (*Reader, error)
	ListReaders(ctx context.Context, filter ReaderFilter) ([]Reader, error)
	DeleteReader(ctx context.Context, id string) error
	ProcessPayment(ctx context.Context, readerID, intentID string) (*Reader, error)
	CancelReaderAction(ctx context.Context, readerID string) (*Reader, error)
	SimulatePayment(ctx context.Context, readerID string, card SimulatedCard) (*Reader, error)

	CreateConnectionToken(ctx context.Context, location string) (*ConnectionToken, error)

	CreateLocation(ctx context.Context, req CreateLocationRequest) (*Location, error)
	GetLocation(ctx context.Context, id string) (*Location, error)
	ListLocations(ctx context.Context, limit int64) ([]Location, error)

	// VerifyWebhook checks the provider signature over a raw event payload
	// and decodes the event. Verification is done by the vendor SDK.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
