package stripekit

import (
	"context"
	"encoding/json"
)

// ChargeStatus is open, values Stripe adds later decode as themselves.
type ChargeStatus string

const (
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargePending   ChargeStatus = "pending"
	ChargeFailed    ChargeStatus = "failed"
)

func (s ChargeStatus) Known() bool {
	switch s {
	case ChargeSucceeded, ChargePending, ChargeFailed:
		return true
	}
	return false
}

// Charge is the Charge resource from Stripe.
type Charge struct {
	ID             string                     `json:"id"`
	Object         string                     `json:"object"`
	Amount         int64                      `json:"amount"`
	AmountCaptured int64                      `json:"amount_captured"`
	AmountRefunded int64                      `json:"amount_refunded"`
	Currency       Currency                   `json:"currency"`
	Created        Timestamp                  `json:"created"`
	Livemode       bool                       `json:"livemode"`
	Status         ChargeStatus               `json:"status"`
	Paid           bool                       `json:"paid"`
	Captured       bool                       `json:"captured"`
	Refunded       bool                       `json:"refunded"`
	Customer       *Expandable[Customer]      `json:"customer"`
	PaymentIntent  *Expandable[PaymentIntent] `json:"payment_intent"`
	Description    *string                    `json:"description"`
	FailureCode    *string                    `json:"failure_code"`
	FailureMessage *string                    `json:"failure_message"`
	ReceiptURL     *string                    `json:"receipt_url"`
	Metadata       Metadata                   `json:"metadata"`
}

type chargeBuilder struct {
	out      Charge
	id       *string
	amount   *int64
	currency *Currency
	created  *Timestamp
	livemode *bool
	status   *ChargeStatus
}

func (b *chargeBuilder) field(name string, raw json.RawMessage) error {
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
	case "amount_captured":
		b.out.AmountCaptured, err = decodeInt64(name, raw)
	case "amount_refunded":
		b.out.AmountRefunded, err = decodeInt64(name, raw)
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
			s := ChargeStatus(v)
			b.status = &s
		}
	case "paid":
		b.out.Paid, err = decodeBool(name, raw)
	case "captured":
		b.out.Captured, err = decodeBool(name, raw)
	case "refunded":
		b.out.Refunded, err = decodeBool(name, raw)
	case "customer":
		b.out.Customer, err = decodeExpandable[Customer](name, raw)
	case "payment_intent":
		b.out.PaymentIntent, err = decodeExpandable[PaymentIntent](name, raw)
	case "description":
		b.out.Description, err = decodeNullString(name, raw)
	case "failure_code":
		b.out.FailureCode, err = decodeNullString(name, raw)
	case "failure_message":
		b.out.FailureMessage, err = decodeNullString(name, raw)
	case "receipt_url":
		b.out.ReceiptURL, err = decodeNullString(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *chargeBuilder) finish() (*Charge, error) {
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

func (ch *Charge) UnmarshalJSON(data []byte) error {
	b := chargeBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*ch = *out
	return nil
}

// ChargeListParams are the parameters for listing Charges.
type ChargeListParams struct {
	ListParams
	Customer      *string     `form:"customer"`
	PaymentIntent *string     `form:"payment_intent"`
	Created       *RangeQuery `form:"created"`
}

var (
	chargeRetrieve = Endpoint{"GET", "/v1/charges/{charge}"}
	chargeList     = Endpoint{"GET", "/v1/charges"}
)

// RetrieveCharge gets the Charge with the given ID.
func RetrieveCharge(ctx context.Context, c *Client, id string, opts ...CallOption) (*Charge, error) {
	ch := &Charge{}

	err := c.Call(ctx, chargeRetrieve, map[string]string{"charge": id}, nil, ch, opts...)

	if err != nil {
		return nil, err
	}
	return ch, nil
}

// ListCharges returns a pager over the charge collection.
func ListCharges(ctx context.Context, c *Client, params *ChargeListParams) *Iter[Charge] {
	if params == nil {
		params = &ChargeListParams{}
	}
	return newIter(ctx, c, chargeList, nil, params, func(ch *Charge) string { return ch.ID })
}
