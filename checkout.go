package stripekit

import (
	"context"
	"encoding/json"
)

// CheckoutSessionMode is open, values Stripe adds later decode as themselves.
type CheckoutSessionMode string

const (
	CheckoutModePayment      CheckoutSessionMode = "payment"
	CheckoutModeSetup        CheckoutSessionMode = "setup"
	CheckoutModeSubscription CheckoutSessionMode = "subscription"
)

func (m CheckoutSessionMode) Known() bool {
	switch m {
	case CheckoutModePayment, CheckoutModeSetup, CheckoutModeSubscription:
		return true
	}
	return false
}

// CheckoutSessionStatus is open, values Stripe adds later decode as
// themselves.
type CheckoutSessionStatus string

const (
	CheckoutOpen     CheckoutSessionStatus = "open"
	CheckoutComplete CheckoutSessionStatus = "complete"
	CheckoutExpired  CheckoutSessionStatus = "expired"
)

func (s CheckoutSessionStatus) Known() bool {
	switch s {
	case CheckoutOpen, CheckoutComplete, CheckoutExpired:
		return true
	}
	return false
}

// CheckoutSession is the Checkout Session resource from Stripe.
type CheckoutSession struct {
	ID            string                     `json:"id"`
	Object        string                     `json:"object"`
	Created       Timestamp                  `json:"created"`
	Livemode      bool                       `json:"livemode"`
	Mode          CheckoutSessionMode        `json:"mode"`
	Status        *CheckoutSessionStatus     `json:"status"`
	URL           *string                    `json:"url"`
	SuccessURL    *string                    `json:"success_url"`
	CancelURL     *string                    `json:"cancel_url"`
	Customer      *Expandable[Customer]      `json:"customer"`
	CustomerEmail *string                    `json:"customer_email"`
	PaymentIntent *Expandable[PaymentIntent] `json:"payment_intent"`
	Subscription  *Expandable[Subscription]  `json:"subscription"`
	AmountTotal   *int64                     `json:"amount_total"`
	Currency      *Currency                  `json:"currency"`
	ExpiresAt     Timestamp                  `json:"expires_at"`
	Metadata      Metadata                   `json:"metadata"`
}

type checkoutSessionBuilder struct {
	out      CheckoutSession
	id       *string
	created  *Timestamp
	livemode *bool
	mode     *CheckoutSessionMode
}

func (b *checkoutSessionBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
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
	case "mode":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			m := CheckoutSessionMode(v)
			b.mode = &m
		}
	case "status":
		var v *string
		if v, err = decodeNullString(name, raw); err == nil && v != nil {
			s := CheckoutSessionStatus(*v)
			b.out.Status = &s
		}
	case "url":
		b.out.URL, err = decodeNullString(name, raw)
	case "success_url":
		b.out.SuccessURL, err = decodeNullString(name, raw)
	case "cancel_url":
		b.out.CancelURL, err = decodeNullString(name, raw)
	case "customer":
		b.out.Customer, err = decodeExpandable[Customer](name, raw)
	case "customer_email":
		b.out.CustomerEmail, err = decodeNullString(name, raw)
	case "payment_intent":
		b.out.PaymentIntent, err = decodeExpandable[PaymentIntent](name, raw)
	case "subscription":
		b.out.Subscription, err = decodeExpandable[Subscription](name, raw)
	case "amount_total":
		b.out.AmountTotal, err = decodeNullInt64(name, raw)
	case "currency":
		b.out.Currency, err = decodeNullCurrency(name, raw)
	case "expires_at":
		b.out.ExpiresAt, err = decodeTimestamp(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *checkoutSessionBuilder) finish() (*CheckoutSession, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.mode == nil:
		return nil, errMissing("mode")
	}

	b.out.ID = *b.id
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Mode = *b.mode
	return &b.out, nil
}

func (s *CheckoutSession) UnmarshalJSON(data []byte) error {
	b := checkoutSessionBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*s = *out
	return nil
}

// CheckoutLineItemParams are the parameters for a line item on a Checkout
// Session.
type CheckoutLineItemParams struct {
	Price    *string `form:"price"`
	Quantity *int64  `form:"quantity"`
}

// CheckoutSessionParams are the parameters for creating a Checkout Session.
type CheckoutSessionParams struct {
	Mode          CheckoutSessionMode       `form:"mode" validate:"required"`
	LineItems     []*CheckoutLineItemParams `form:"line_items"`
	SuccessURL    *string                   `form:"success_url" validate:"omitempty,url"`
	CancelURL     *string                   `form:"cancel_url" validate:"omitempty,url"`
	Customer      *string                   `form:"customer"`
	CustomerEmail *string                   `form:"customer_email" validate:"omitempty,email"`
	Metadata      Metadata                  `form:"metadata"`
	Expand        []string                  `form:"expand"`
}

// CheckoutSessionListParams are the parameters for listing Checkout
// Sessions.
type CheckoutSessionListParams struct {
	ListParams
	Customer      *string                `form:"customer"`
	PaymentIntent *string                `form:"payment_intent"`
	Status        *CheckoutSessionStatus `form:"status"`
	Created       *RangeQuery            `form:"created"`
}

var (
	checkoutSessionCreate   = Endpoint{"POST", "/v1/checkout/sessions"}
	checkoutSessionRetrieve = Endpoint{"GET", "/v1/checkout/sessions/{session}"}
	checkoutSessionExpire   = Endpoint{"POST", "/v1/checkout/sessions/{session}/expire"}
	checkoutSessionList     = Endpoint{"GET", "/v1/checkout/sessions"}
)

// CreateCheckoutSession creates a new Checkout Session.
func CreateCheckoutSession(ctx context.Context, c *Client, params *CheckoutSessionParams, opts ...CallOption) (*CheckoutSession, error) {
	s := &CheckoutSession{}

	if err := c.Call(ctx, checkoutSessionCreate, nil, params, s, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// RetrieveCheckoutSession gets the Checkout Session with the given ID.
func RetrieveCheckoutSession(ctx context.Context, c *Client, id string, opts ...CallOption) (*CheckoutSession, error) {
	s := &CheckoutSession{}

	err := c.Call(ctx, checkoutSessionRetrieve, map[string]string{"session": id}, nil, s, opts...)

	if err != nil {
		return nil, err
	}
	return s, nil
}

// ExpireCheckoutSession expires the open Checkout Session with the given ID.
func ExpireCheckoutSession(ctx context.Context, c *Client, id string, opts ...CallOption) (*CheckoutSession, error) {
	s := &CheckoutSession{}

	err := c.Call(ctx, checkoutSessionExpire, map[string]string{"session": id}, nil, s, opts...)

	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListCheckoutSessions returns a pager over the Checkout Session collection.
func ListCheckoutSessions(ctx context.Context, c *Client, params *CheckoutSessionListParams) *Iter[CheckoutSession] {
	if params == nil {
		params = &CheckoutSessionListParams{}
	}
	return newIter(ctx, c, checkoutSessionList, nil, params, func(s *CheckoutSession) string { return s.ID })
}
