package stripekit

import (
	"context"
	"encoding/json"
)

// PaymentMethodType is open, values Stripe adds later decode as themselves.
type PaymentMethodType string

const (
	PaymentMethodTypeCard          PaymentMethodType = "card"
	PaymentMethodTypeUSBankAccount PaymentMethodType = "us_bank_account"
	PaymentMethodTypeSEPADebit     PaymentMethodType = "sepa_debit"
	PaymentMethodTypeBACSDebit     PaymentMethodType = "bacs_debit"
	PaymentMethodTypeIdeal         PaymentMethodType = "ideal"
	PaymentMethodTypeP24           PaymentMethodType = "p24"
	PaymentMethodTypeLink          PaymentMethodType = "link"
)

func (t PaymentMethodType) Known() bool {
	switch t {
	case PaymentMethodTypeCard, PaymentMethodTypeUSBankAccount, PaymentMethodTypeSEPADebit,
		PaymentMethodTypeBACSDebit, PaymentMethodTypeIdeal, PaymentMethodTypeP24,
		PaymentMethodTypeLink:
		return true
	}
	return false
}

// PaymentMethodCard is the card sub-object on PaymentMethod.
type PaymentMethodCard struct {
	Brand    string  `json:"brand"`
	Last4    string  `json:"last4"`
	ExpMonth int64   `json:"exp_month"`
	ExpYear  int64   `json:"exp_year"`
	Country  *string `json:"country"`
}

type paymentMethodCardBuilder struct {
	out      PaymentMethodCard
	brand    *string
	last4    *string
	expMonth *int64
	expYear  *int64
}

func (b *paymentMethodCardBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "brand":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.brand = &v
		}
	case "last4":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.last4 = &v
		}
	case "exp_month":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.expMonth = &v
		}
	case "exp_year":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.expYear = &v
		}
	case "country":
		b.out.Country, err = decodeNullString(name, raw)
	}
	return err
}

func (c *PaymentMethodCard) UnmarshalJSON(data []byte) error {
	b := paymentMethodCardBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	switch {
	case b.brand == nil:
		return errMissing("brand")
	case b.last4 == nil:
		return errMissing("last4")
	case b.expMonth == nil:
		return errMissing("exp_month")
	case b.expYear == nil:
		return errMissing("exp_year")
	}

	b.out.Brand = *b.brand
	b.out.Last4 = *b.last4
	b.out.ExpMonth = *b.expMonth
	b.out.ExpYear = *b.expYear
	*c = b.out
	return nil
}

// PaymentMethod is the PaymentMethod resource from Stripe.
type PaymentMethod struct {
	ID       string                `json:"id"`
	Object   string                `json:"object"`
	Type     PaymentMethodType     `json:"type"`
	Created  Timestamp             `json:"created"`
	Livemode bool                  `json:"livemode"`
	Customer *Expandable[Customer] `json:"customer"`
	Card     *PaymentMethodCard    `json:"card"`
	Metadata Metadata              `json:"metadata"`
}

type paymentMethodBuilder struct {
	out      PaymentMethod
	id       *string
	typ      *PaymentMethodType
	created  *Timestamp
	livemode *bool
}

func (b *paymentMethodBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "type":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			t := PaymentMethodType(v)
			b.typ = &t
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
	case "customer":
		b.out.Customer, err = decodeExpandable[Customer](name, raw)
	case "card":
		if isNull(raw) {
			break
		}
		v := &PaymentMethodCard{}
		if err = decodeInto(name, raw, v); err == nil {
			b.out.Card = v
		}
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *paymentMethodBuilder) finish() (*PaymentMethod, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.typ == nil:
		return nil, errMissing("type")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	}

	b.out.ID = *b.id
	b.out.Type = *b.typ
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	return &b.out, nil
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	b := paymentMethodBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*m = *out
	return nil
}

// PaymentMethodParams are the parameters for creating a PaymentMethod.
type PaymentMethodParams struct {
	Type     PaymentMethodType        `form:"type" validate:"required"`
	Card     *PaymentMethodCardParams `form:"card"`
	Metadata Metadata                 `form:"metadata"`
	Expand   []string                 `form:"expand"`
}

type PaymentMethodCardParams struct {
	Number   *string `form:"number"`
	ExpMonth *int64  `form:"exp_month"`
	ExpYear  *int64  `form:"exp_year"`
	CVC      *string `form:"cvc"`
	Token    *string `form:"token"`
}

// PaymentMethodAttachParams are the parameters for attaching a PaymentMethod
// to a customer.
type PaymentMethodAttachParams struct {
	Customer string   `form:"customer" validate:"required"`
	Expand   []string `form:"expand"`
}

// PaymentMethodListParams are the parameters for listing PaymentMethods.
type PaymentMethodListParams struct {
	ListParams
	Customer *string            `form:"customer"`
	Type     *PaymentMethodType `form:"type"`
}

var (
	paymentMethodCreate   = Endpoint{"POST", "/v1/payment_methods"}
	paymentMethodRetrieve = Endpoint{"GET", "/v1/payment_methods/{payment_method}"}
	paymentMethodAttach   = Endpoint{"POST", "/v1/payment_methods/{payment_method}/attach"}
	paymentMethodDetach   = Endpoint{"POST", "/v1/payment_methods/{payment_method}/detach"}
	paymentMethodList     = Endpoint{"GET", "/v1/payment_methods"}
)

// CreatePaymentMethod creates a new PaymentMethod.
func CreatePaymentMethod(ctx context.Context, c *Client, params *PaymentMethodParams, opts ...CallOption) (*PaymentMethod, error) {
	pm := &PaymentMethod{}

	if err := c.Call(ctx, paymentMethodCreate, nil, params, pm, opts...); err != nil {
		return nil, err
	}
	return pm, nil
}

// RetrievePaymentMethod gets the PaymentMethod with the given ID.
func RetrievePaymentMethod(ctx context.Context, c *Client, id string, opts ...CallOption) (*PaymentMethod, error) {
	pm := &PaymentMethod{}

	err := c.Call(ctx, paymentMethodRetrieve, map[string]string{"payment_method": id}, nil, pm, opts...)

	if err != nil {
		return nil, err
	}
	return pm, nil
}

// AttachPaymentMethod attaches the PaymentMethod to the customer named in
// params.
func AttachPaymentMethod(ctx context.Context, c *Client, id string, params *PaymentMethodAttachParams, opts ...CallOption) (*PaymentMethod, error) {
	pm := &PaymentMethod{}

	err := c.Call(ctx, paymentMethodAttach, map[string]string{"payment_method": id}, params, pm, opts...)

	if err != nil {
		return nil, err
	}
	return pm, nil
}

// DetachPaymentMethod detaches the PaymentMethod from its customer.
func DetachPaymentMethod(ctx context.Context, c *Client, id string, opts ...CallOption) (*PaymentMethod, error) {
	pm := &PaymentMethod{}

	err := c.Call(ctx, paymentMethodDetach, map[string]string{"payment_method": id}, nil, pm, opts...)

	if err != nil {
		return nil, err
	}
	return pm, nil
}

// ListPaymentMethods returns a pager over the payment method collection.
func ListPaymentMethods(ctx context.Context, c *Client, params *PaymentMethodListParams) *Iter[PaymentMethod] {
	if params == nil {
		params = &PaymentMethodListParams{}
	}
	return newIter(ctx, c, paymentMethodList, nil, params, func(m *PaymentMethod) string { return m.ID })
}
