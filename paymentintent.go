package stripekit

import (
	"context"
	"encoding/json"
)

// PaymentIntentStatus is open, values Stripe adds later decode as themselves.
type PaymentIntentStatus string

const (
	PaymentIntentRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentRequiresConfirmation  PaymentIntentStatus = "requires_confirmation"
	PaymentIntentRequiresAction        PaymentIntentStatus = "requires_action"
	PaymentIntentProcessing            PaymentIntentStatus = "processing"
	PaymentIntentRequiresCapture       PaymentIntentStatus = "requires_capture"
	PaymentIntentCanceled              PaymentIntentStatus = "canceled"
	PaymentIntentSucceeded             PaymentIntentStatus = "succeeded"
)

func (s PaymentIntentStatus) Known() bool {
	switch s {
	case PaymentIntentRequiresPaymentMethod, PaymentIntentRequiresConfirmation,
		PaymentIntentRequiresAction, PaymentIntentProcessing,
		PaymentIntentRequiresCapture, PaymentIntentCanceled, PaymentIntentSucceeded:
		return true
	}
	return false
}

// PaymentIntent is the PaymentIntent resource from Stripe.
type PaymentIntent struct {
	ID                 string                     `json:"id"`
	Object             string                     `json:"object"`
	Amount             int64                      `json:"amount"`
	AmountReceived     int64                      `json:"amount_received"`
	Currency           Currency                   `json:"currency"`
	Created            Timestamp                  `json:"created"`
	Livemode           bool                       `json:"livemode"`
	Status             PaymentIntentStatus        `json:"status"`
	Customer           *Expandable[Customer]      `json:"customer"`
	PaymentMethod      *Expandable[PaymentMethod] `json:"payment_method"`
	LatestCharge       *Expandable[Charge]        `json:"latest_charge"`
	ClientSecret       *string                    `json:"client_secret"`
	Description        *string                    `json:"description"`
	CancellationReason *string                    `json:"cancellation_reason"`
	CanceledAt         *Timestamp                 `json:"canceled_at"`
	Metadata           Metadata                   `json:"metadata"`
}

type paymentIntentBuilder struct {
	out      PaymentIntent
	id       *string
	amount   *int64
	currency *Currency
	created  *Timestamp
	livemode *bool
	status   *PaymentIntentStatus
}

func (b *paymentIntentBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "amount":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.amount = &v
		}
	case "amount_received":
		b.out.AmountReceived, err = decodeInt64(name, raw)
	case "currency":
		var v Currency
		if v, err = decodeCurrency(name, raw); err == nil {
			b.currency = &v
		}
	case "created":
		var v Timestamp
		if v, err = decodeTimestamp(name, raw); err == nil {
			b.created = &v
		}
	case "livemode":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.livemode = &v
		}
	case "status":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			s := PaymentIntentStatus(v)
			b.status = &s
		}
	case "customer":
		b.out.Customer, err = decodeExpandable[Customer](name, raw)
	case "payment_method":
		b.out.PaymentMethod, err = decodeExpandable[PaymentMethod](name, raw)
	case "latest_charge":
		b.out.LatestCharge, err = decodeExpandable[Charge](name, raw)
	case "client_secret":
		b.out.ClientSecret, err = decodeNullString(name, raw)
	case "description":
		b.out.Description, err = decodeNullString(name, raw)
	case "cancellation_reason":
		b.out.CancellationReason, err = decodeNullString(name, raw)
	case "canceled_at":
		b.out.CanceledAt, err = decodeNullTimestamp(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *paymentIntentBuilder) finish() (*PaymentIntent, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.amount == nil:
		return nil, errMissing("amount")
	case b.currency == nil:
		return nil, errMissing("currency")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.status == nil:
		return nil, errMissing("status")
	}

	b.out.ID = *b.id
	b.out.Amount = *b.amount
	b.out.Currency = *b.currency
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Status = *b.status
	return &b.out, nil
}

func (pi *PaymentIntent) UnmarshalJSON(data []byte) error {
	b := paymentIntentBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*pi = *out
	return nil
}

// PaymentIntentParams are the parameters for creating or updating a
// PaymentIntent.
type PaymentIntentParams struct {
	Amount        *int64    `form:"amount"`
	Currency      *Currency `form:"currency"`
	Customer      *string   `form:"customer"`
	PaymentMethod *string   `form:"payment_method"`
	Confirm       *bool     `form:"confirm"`
	CaptureMethod *string   `form:"capture_method"`
	Description   *string   `form:"description"`
	Metadata      Metadata  `form:"metadata"`
	Expand        []string  `form:"expand"`
}

// PaymentIntentConfirmParams are the parameters for confirming a
// PaymentIntent.
type PaymentIntentConfirmParams struct {
	PaymentMethod *string  `form:"payment_method"`
	ReturnURL     *string  `form:"return_url"`
	Expand        []string `form:"expand"`
}

// PaymentIntentCancelParams are the parameters for cancelling a
// PaymentIntent.
type PaymentIntentCancelParams struct {
	CancellationReason *string  `form:"cancellation_reason"`
	Expand             []string `form:"expand"`
}

// PaymentIntentCaptureParams are the parameters for capturing a
// PaymentIntent that was created with a manual capture method.
type PaymentIntentCaptureParams struct {
	AmountToCapture *int64   `form:"amount_to_capture"`
	Expand          []string `form:"expand"`
}

// PaymentIntentListParams are the parameters for listing PaymentIntents.
type PaymentIntentListParams struct {
	ListParams
	Customer *string     `form:"customer"`
	Created  *RangeQuery `form:"created"`
}

var (
	paymentIntentCreate   = Endpoint{"POST", "/v1/payment_intents"}
	paymentIntentRetrieve = Endpoint{"GET", "/v1/payment_intents/{payment_intent}"}
	paymentIntentUpdate   = Endpoint{"POST", "/v1/payment_intents/{payment_intent}"}
	paymentIntentConfirm  = Endpoint{"POST", "/v1/payment_intents/{payment_intent}/confirm"}
	paymentIntentCancel   = Endpoint{"POST", "/v1/payment_intents/{payment_intent}/cancel"}
	paymentIntentCapture  = Endpoint{"POST", "/v1/payment_intents/{payment_intent}/capture"}
	paymentIntentList     = Endpoint{"GET", "/v1/payment_intents"}
)

// CreatePaymentIntent creates a new PaymentIntent.
func CreatePaymentIntent(ctx context.Context, c *Client, params *PaymentIntentParams, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	if err := c.Call(ctx, paymentIntentCreate, nil, params, pi, opts...); err != nil {
		return nil, err
	}
	return pi, nil
}

// RetrievePaymentIntent gets the PaymentIntent with the given ID.
func RetrievePaymentIntent(ctx context.Context, c *Client, id string, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	err := c.Call(ctx, paymentIntentRetrieve, map[string]string{"payment_intent": id}, nil, pi, opts...)

	if err != nil {
		return nil, err
	}
	return pi, nil
}

// UpdatePaymentIntent updates the PaymentIntent with the given ID.
func UpdatePaymentIntent(ctx context.Context, c *Client, id string, params *PaymentIntentParams, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	err := c.Call(ctx, paymentIntentUpdate, map[string]string{"payment_intent": id}, params, pi, opts...)

	if err != nil {
		return nil, err
	}
	return pi, nil
}

// ConfirmPaymentIntent confirms the PaymentIntent with the given ID.
func ConfirmPaymentIntent(ctx context.Context, c *Client, id string, params *PaymentIntentConfirmParams, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	err := c.Call(ctx, paymentIntentConfirm, map[string]string{"payment_intent": id}, params, pi, opts...)

	if err != nil {
		return nil, err
	}
	return pi, nil
}

// CancelPaymentIntent cancels the PaymentIntent with the given ID.
func CancelPaymentIntent(ctx context.Context, c *Client, id string, params *PaymentIntentCancelParams, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	err := c.Call(ctx, paymentIntentCancel, map[string]string{"payment_intent": id}, params, pi, opts...)

	if err != nil {
		return nil, err
	}
	return pi, nil
}

// CapturePaymentIntent captures the funds held by the PaymentIntent with the
// given ID.
func CapturePaymentIntent(ctx context.Context, c *Client, id string, params *PaymentIntentCaptureParams, opts ...CallOption) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	err := c.Call(ctx, paymentIntentCapture, map[string]string{"payment_intent": id}, params, pi, opts...)

	if err != nil {
		return nil, err
	}
	return pi, nil
}

// ListPaymentIntents returns a pager over the payment intent collection.
func ListPaymentIntents(ctx context.Context, c *Client, params *PaymentIntentListParams) *Iter[PaymentIntent] {
	if params == nil {
		params = &PaymentIntentListParams{}
	}
	return newIter(ctx, c, paymentIntentList, nil, params, func(pi *PaymentIntent) string { return pi.ID })
}
