package terminal

import (
	"encoding/json"
	"time"
)

type CreateIntentRequest struct {
	Amount         int64 // minor units
	Currency       string
	Description    string
	CaptureMethod  string
	Reference      string
	IdempotencyKey string
	Metadata       map[string]string
}

type CaptureRequest struct {
	AmountToCapture int64 // minor units; 0 captures the full amount
	IdempotencyKey  string
}

type PaymentIntent struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountDecimal  string            `json:"amount_decimal"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Status         string            `json:"status"`
	CaptureMethod  string            `json:"capture_method"`
	Description    string            `json:"description,omitempty"`
	ClientSecret   string            `json:"client_secret,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	CanceledAt     *time.Time        `json:"canceled_at,omitempty"`
	Livemode       bool              `json:"livemode"`
}

type RegisterReaderRequest struct {
	RegistrationCode string
	Label            string
	Location         string
}

type ReaderFilter struct {
	Location   string
	Status     string
	DeviceType string
	Limit      int64
}

// ReaderAction is the reader's in-flight (or last finished) operation.
type ReaderAction struct {
	Type           string `json:"type"`
	Status         string `json:"status"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

type Reader struct {
	ID              string        `json:"id"`
	Label           string        `json:"label"`
	DeviceType      string        `json:"device_type"`
	DeviceSwVersion string        `json:"device_sw_version,omitempty"`
	IPAddress       string        `json:"ip_address,omitempty"`
	SerialNumber    string        `json:"serial_number,omitempty"`
	LocationID      string        `json:"location_id,omitempty"`
	Status          string        `json:"status"`
	Action          *ReaderAction `json:"action,omitempty"`
	Livemode        bool          `json:"livemode"`
}

// SimulatedCard drives the vendor's test-helper presentment. Only usable
// against a test-mode key.
type SimulatedCard struct {
	Number string
}

type ConnectionToken struct {
	Secret   string `json:"secret"`
	Location string `json:"location,omitempty"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

type CreateLocationRequest struct {
	DisplayName string
	Address     Address
}

type Location struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Livemode    bool    `json:"livemode"`
}

// WebhookEvent is a signature-verified provider event. Object carries the
// raw event object untouched for callers that need vendor fields.
type WebhookEvent struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Livemode bool            `json:"livemode"`
	Created  time.Time       `json:"created_at"`
	Object   json.RawMessage `json:"object,omitempty"`
}
