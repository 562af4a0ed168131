package stripekit

import (
	"context"
	"encoding/json"
)

// RefundReason is open, values Stripe adds later decode as themselves.
type RefundReason string

const (
	RefundDuplicate           RefundReason = "duplicate"
	RefundFraudulent          RefundReason = "fraudulent"
	RefundRequestedByCustomer RefundReason = "requested_by_customer"
	RefundExpiredUncaptured   RefundReason = "expired_uncaptured_charge"
)

func (r RefundReason) Known() bool {
	switch r {
	case RefundDuplicate, RefundFraudulent, RefundRequestedByCustomer, RefundExpiredUncaptured:
		return true
	}
	return false
}

// RefundStatus is open, values Stripe adds later decode as themselves.
type RefundStatus string

const (
	RefundPending        RefundStatus = "pending"
	RefundSucceeded      RefundStatus = "succeeded"
	RefundFailed         RefundStatus = "failed"
	RefundCanceled       RefundStatus = "canceled"
	RefundRequiresAction RefundStatus = "requires_action"
)

func (s RefundStatus) Known() bool {
	switch s {
	case RefundPending, RefundSucceeded, RefundFailed, RefundCanceled, RefundRequiresAction:
		return true
	}
	return false
}

// Refund is the Refund resource from Stripe.
type Refund struct {
	ID            string                     `json:"id"`
	Object        string                     `json:"object"`
	Amount        int64                      `json:"amount"`
	Currency      Currency                   `json:"currency"`
	Created       Timestamp                  `json:"created"`
	Status        *RefundStatus              `json:"status"`
	Reason        *RefundReason              `json:"reason"`
	Charge        *Expandable[Charge]        `json:"charge"`
	PaymentIntent *Expandable[PaymentIntent] `json:"payment_intent"`
	Metadata      Metadata                   `json:"metadata"`
}

type refundBuilder struct {
	out      Refund
	id       *string
	amount   *int64
	currency *Currency
	created  *Timestamp
}

func (b *refundBuilder) field(name string, raw json.RawMessage) error {
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
	case "status":
		var v *string
		if v, err = decodeNullString(name, raw); err == nil && v != nil {
			s := RefundStatus(*v)
			b.out.Status = &s
		}
	case "reason":
		var v *string
		if v, err = decodeNullString(name, raw); err == nil && v != nil {
			r := RefundReason(*v)
			b.out.Reason = &r
		}
	case "charge":
		b.out.Charge, err = decodeExpandable[Charge](name, raw)
	case "payment_intent":
		b.out.PaymentIntent, err = decodeExpandable[PaymentIntent](name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *refundBuilder) finish() (*Refund, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.amount == nil:
		return nil, errMissing("amount")
	case b.currency == nil:
		return nil, errMissing("currency")
	case b.created == nil:
		return nil, errMissing("created")
	}

	b.out.ID = *b.id
	b.out.Amount = *b.amount
	b.out.Currency = *b.currency
	b.out.Created = *b.created
	return &b.out, nil
}

func (r *Refund) UnmarshalJSON(data []byte) error {
	b := refundBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*r = *out
	return nil
}

// RefundParams are the parameters for creating a Refund. One of Charge or
// PaymentIntent must be given.
type RefundParams struct {
	Charge        *string       `form:"charge"`
	PaymentIntent *string       `form:"payment_intent"`
	Amount        *int64        `form:"amount"`
	Reason        *RefundReason `form:"reason"`
	Metadata      Metadata      `form:"metadata"`
	Expand        []string      `form:"expand"`
}

// RefundListParams are the parameters for listing Refunds.
type RefundListParams struct {
	ListParams
	Charge        *string     `form:"charge"`
	PaymentIntent *string     `form:"payment_intent"`
	Created       *RangeQuery `form:"created"`
}

var (
	refundCreate   = Endpoint{"POST", "/v1/refunds"}
	refundRetrieve = Endpoint{"GET", "/v1/refunds/{refund}"}
	refundList     = Endpoint{"GET", "/v1/refunds"}
)

// CreateRefund creates a new Refund.
func CreateRefund(ctx context.Context, c *Client, params *RefundParams, opts ...CallOption) (*Refund, error) {
	r := &Refund{}

	if err := c.Call(ctx, refundCreate, nil, params, r, opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// RetrieveRefund gets the Refund with the given ID.
func RetrieveRefund(ctx context.Context, c *Client, id string, opts ...CallOption) (*Refund, error) {
	r := &Refund{}

	err := c.Call(ctx, refundRetrieve, map[string]string{"refund": id}, nil, r, opts...)

	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRefunds returns a pager over the refund collection.
func ListRefunds(ctx context.Context, c *Client, params *RefundListParams) *Iter[Refund] {
	if params == nil {
		params = &RefundListParams{}
	}
	return newIter(ctx, c, refundList, nil, params, func(r *Refund) string { return r.ID })
}
