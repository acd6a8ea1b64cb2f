package terminal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements Gateway against the hosted Stripe Terminal API.
// Every method is a single SDK call plus response reshaping.
type StripeGateway struct {
	sc            *client.API
	webhookSecret string
}

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &StripeGateway{
		sc:            sc,
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card_present"}),
		CaptureMethod:      stripe.String(req.CaptureMethod),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.Reference != "" {
		params.AddMetadata("order_reference", req.Reference)
	}

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapStripeErr("create payment intent", err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	pi, err := g.sc.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeErr("get payment intent", err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) CapturePaymentIntent(ctx context.Context, id string, req CaptureRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{
		Params: stripe.Params{Context: ctx},
	}
	if req.AmountToCapture > 0 {
		params.AmountToCapture = stripe.Int64(req.AmountToCapture)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.sc.PaymentIntents.Capture(id, params)
	if err != nil {
		return nil, wrapStripeErr("capture payment intent", err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, id, reason string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	}
	if reason != "" {
		params.CancellationReason = stripe.String(reason)
	}

	pi, err := g.sc.PaymentIntents.Cancel(id, params)
	if err != nil {
		return nil, wrapStripeErr("cancel payment intent", err)
	}
	return fromStripeIntent(pi), nil
}

func (g *StripeGateway) RegisterReader(ctx context.Context, req RegisterReaderRequest) (*Reader, error) {
	params := &stripe.TerminalReaderParams{
		Params:           stripe.Params{Context: ctx},
		RegistrationCode: stripe.String(req.RegistrationCode),
	}
	if req.Label != "" {
		params.Label = stripe.String(req.Label)
	}
	if req.Location != "" {
		params.Location = stripe.String(req.Location)
	}

	r, err := g.sc.TerminalReaders.New(params)
	if err != nil {
		return nil, wrapStripeErr("register reader", err)
	}
	return fromStripeReader(r), nil
}

func (g *StripeGateway) GetReader(ctx context.Context, id string) (*Reader, error) {
	r, err := g.sc.TerminalReaders.Get(id, &stripe.TerminalReaderParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeErr("get reader", err)
	}
	return fromStripeReader(r), nil
}

func (g *StripeGateway) ListReaders(ctx context.Context, filter ReaderFilter) ([]Reader, error) {
	params := &stripe.TerminalReaderListParams{
		ListParams: stripe.ListParams{Context: ctx},
	}
	if filter.Limit > 0 {
		params.Limit = stripe.Int64(filter.Limit)
	}
	if filter.Location != "" {
		params.Location = stripe.String(filter.Location)
	}
	if filter.Status != "" {
		params.Status = stripe.String(filter.Status)
	}
	if filter.DeviceType != "" {
		params.DeviceType = stripe.String(filter.DeviceType)
	}

	readers := []Reader{}
	iter := g.sc.TerminalReaders.List(params)
	for iter.Next() {
		readers = append(readers, *fromStripeReader(iter.TerminalReader()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr("list readers", err)
	}
	return readers, nil
}

func (g *StripeGateway) DeleteReader(ctx context.Context, id string) error {
	_, err := g.sc.TerminalReaders.Del(id, &stripe.TerminalReaderParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return wrapStripeErr("delete reader", err)
	}
	return nil
}

func (g *StripeGateway) ProcessPayment(ctx context.Context, readerID, intentID string) (*Reader, error) {
	params := &stripe.TerminalReaderProcessPaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(intentID),
	}

	r, err := g.sc.TerminalReaders.ProcessPaymentIntent(readerID, params)
	if err != nil {
		return nil, wrapStripeErr("process payment intent", err)
	}
	return fromStripeReader(r), nil
}

func (g *StripeGateway) CancelReaderAction(ctx context.Context, readerID string) (*Reader, error) {
	r, err := g.sc.TerminalReaders.CancelAction(readerID, &stripe.TerminalReaderCancelActionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeErr("cancel reader action", err)
	}
	return fromStripeReader(r), nil
}

func (g *StripeGateway) SimulatePayment(ctx context.Context, readerID string, card SimulatedCard) (*Reader, error) {
	params := &stripe.TestHelpersTerminalReaderPresentPaymentMethodParams{
		Params: stripe.Params{Context: ctx},
		Type:   stripe.String("card_present"),
	}
	if card.Number != "" {
		params.CardPresent = &stripe.TestHelpersTerminalReaderPresentPaymentMethodCardPresentParams{
			Number: stripe.String(card.Number),
		}
	}

	r, err := g.sc.TestHelpersTerminalReaders.PresentPaymentMethod(readerID, params)
	if err != nil {
		return nil, wrapStripeErr("simulate payment", err)
	}
	return fromStripeReader(r), nil
}

func (g *StripeGateway) CreateConnectionToken(ctx context.Context, location string) (*ConnectionToken, error) {
	params := &stripe.TerminalConnectionTokenParams{
		Params: stripe.Params{Context: ctx},
	}
	if location != "" {
		params.Location = stripe.String(location)
	}

	tok, err := g.sc.TerminalConnectionTokens.New(params)
	if err != nil {
		return nil, wrapStripeErr("create connection token", err)
	}
	return &ConnectionToken{Secret: tok.Secret, Location: tok.Location}, nil
}

func (g *StripeGateway) CreateLocation(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	address := &stripe.AddressParams{
		Line1:   stripe.String(req.Address.Line1),
		Country: stripe.String(req.Address.Country),
	}
	if req.Address.Line2 != "" {
		address.Line2 = stripe.String(req.Address.Line2)
	}
	if req.Address.City != "" {
		address.City = stripe.String(req.Address.City)
	}
	if req.Address.State != "" {
		address.State = stripe.String(req.Address.State)
	}
	if req.Address.PostalCode != "" {
		address.PostalCode = stripe.String(req.Address.PostalCode)
	}

	loc, err := g.sc.TerminalLocations.New(&stripe.TerminalLocationParams{
		Params:      stripe.Params{Context: ctx},
		DisplayName: stripe.String(req.DisplayName),
		Address:     address,
	})
	if err != nil {
		return nil, wrapStripeErr("create location", err)
	}
	return fromStripeLocation(loc), nil
}

func (g *StripeGateway) GetLocation(ctx context.Context, id string) (*Location, error) {
	loc, err := g.sc.TerminalLocations.Get(id, &stripe.TerminalLocationParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeErr("get location", err)
	}
	return fromStripeLocation(loc), nil
}

func (g *StripeGateway) ListLocations(ctx context.Context, limit int64) ([]Location, error) {
	params := &stripe.TerminalLocationListParams{
		ListParams: stripe.ListParams{Context: ctx},
	}
	if limit > 0 {
		params.Limit = stripe.Int64(limit)
	}

	locations := []Location{}
	iter := g.sc.TerminalLocations.List(params)
	for iter.Next() {
		locations = append(locations, *fromStripeLocation(iter.TerminalLocation()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr("list locations", err)
	}
	return locations, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &Error{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("webhook signature verification failed: %v", err),
		}
	}

	out := &WebhookEvent{
		ID:       event.ID,
		Type:     string(event.Type),
		Livemode: event.Livemode,
		Created:  time.Unix(event.Created, 0).UTC(),
	}
	if event.Data != nil {
		out.Object = event.Data.Raw
	}
	return out, nil
}

// wrapStripeErr turns SDK failures into *Error. Provider 4xx keep their
// status and message; provider 5xx and anything without a status become a
// bad gateway so callers never mistake an upstream outage for their own bug.
func wrapStripeErr(op string, err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		status := sErr.HTTPStatusCode
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		msg := sErr.Msg
		if msg == "" {
			msg = op + " failed"
		}
		return &Error{Status: status, Code: string(sErr.Code), Message: msg}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func fromStripeIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	currency := string(pi.Currency)
	out := &PaymentIntent{
		ID:             pi.ID,
		Amount:         pi.Amount,
		AmountDecimal:  MajorUnits(pi.Amount, currency),
		AmountReceived: pi.AmountReceived,
		Currency:       currency,
		Status:         string(pi.Status),
		CaptureMethod:  string(pi.CaptureMethod),
		Description:    pi.Description,
		ClientSecret:   pi.ClientSecret,
		Metadata:       pi.Metadata,
		CreatedAt:      time.Unix(pi.Created, 0).UTC(),
		Livemode:       pi.Livemode,
	}
	if pi.CanceledAt > 0 {
		t := time.Unix(pi.CanceledAt, 0).UTC()
		out.CanceledAt = &t
	}
	return out
}

func fromStripeReader(r *stripe.TerminalReader) *Reader {
	out := &Reader{
		ID:              r.ID,
		Label:           r.Label,
		DeviceType:      string(r.DeviceType),
		DeviceSwVersion: r.DeviceSwVersion,
		IPAddress:       r.IPAddress,
		SerialNumber:    r.SerialNumber,
		Status:          string(r.Status),
		Livemode:        r.Livemode,
	}
	if r.Location != nil {
		out.LocationID = r.Location.ID
	}
	if r.Action != nil {
		out.Action = &ReaderAction{
			Type:           string(r.Action.Type),
			Status:         string(r.Action.Status),
			FailureCode:    r.Action.FailureCode,
			FailureMessage: r.Action.FailureMessage,
		}
	}
	return out
}

func fromStripeLocation(l *stripe.TerminalLocation) *Location {
	out := &Location{
		ID:          l.ID,
		DisplayName: l.DisplayName,
		Livemode:    l.Livemode,
	}
	if l.Address != nil {
		out.Address = Address{
			Line1:      l.Address.Line1,
			Line2:      l.Address.Line2,
			City:       l.Address.City,
			State:      l.Address.State,
			PostalCode: l.Address.PostalCode,
			Country:    l.Address.Country,
		}
	}
	return out
}
