package stripekit

import (
	"context"
	"encoding/json"
)

// Customer is the Customer resource from Stripe. Values are immutable
// snapshots of what the server returned, updating a customer goes back
// through UpdateCustomer.
type Customer struct {
	ID              string                     `json:"id"`
	Object          string                     `json:"object"`
	Created         Timestamp                  `json:"created"`
	Livemode        bool                       `json:"livemode"`
	Balance         int64                      `json:"balance"`
	Email           *string                    `json:"email"`
	Name            *string                    `json:"name"`
	Currency        *Currency                  `json:"currency"`
	Delinquent      *bool                      `json:"delinquent"`
	DefaultSource   *Expandable[PaymentSource] `json:"default_source"`
	InvoiceSettings *CustomerInvoiceSettings   `json:"invoice_settings"`
	Metadata        Metadata                   `json:"metadata"`
}

// CustomerInvoiceSettings is the invoice_settings sub-object on Customer.
type CustomerInvoiceSettings struct {
	DefaultPaymentMethod *Expandable[PaymentMethod] `json:"default_payment_method"`
}

type customerInvoiceSettingsBuilder struct {
	out CustomerInvoiceSettings
}

func (b *customerInvoiceSettingsBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "default_payment_method":
		b.out.DefaultPaymentMethod, err = decodeExpandable[PaymentMethod](name, raw)
	}
	return err
}

func (s *CustomerInvoiceSettings) UnmarshalJSON(data []byte) error {
	b := customerInvoiceSettingsBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}
	*s = b.out
	return nil
}

type customerBuilder struct {
	out      Customer
	id       *string
	created  *Timestamp
	livemode *bool
	balance  *int64
}

func (b *customerBuilder) field(name string, raw json.RawMessage) error {
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
	case "balance":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.balance = &v
		}
	case "email":
		b.out.Email, err = decodeNullString(name, raw)
	case "name":
		b.out.Name, err = decodeNullString(name, raw)
	case "currency":
		b.out.Currency, err = decodeNullCurrency(name, raw)
	case "delinquent":
		b.out.Delinquent, err = decodeNullBool(name, raw)
	case "default_source":
		b.out.DefaultSource, err = decodeExpandable[PaymentSource](name, raw)
	case "invoice_settings":
		if isNull(raw) {
			break
		}
		v := &CustomerInvoiceSettings{}
		if err = decodeInto(name, raw, v); err == nil {
			b.out.InvoiceSettings = v
		}
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *customerBuilder) finish() (*Customer, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.balance == nil:
		return nil, errMissing("balance")
	}

	b.out.ID = *b.id
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Balance = *b.balance
	return &b.out, nil
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	b := customerBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*c = *out
	return nil
}

// CustomerParams are the parameters for creating and updating a Customer.
// Unset pointer fields are omitted from the request entirely.
type CustomerParams struct {
	Email           *string                        `form:"email" validate:"omitempty,email"`
	Name            *string                        `form:"name"`
	Balance         *int64                         `form:"balance"`
	PaymentMethod   *string                        `form:"payment_method"`
	InvoiceSettings *CustomerInvoiceSettingsParams `form:"invoice_settings"`
	Metadata        Metadata                       `form:"metadata"`
	Expand          []string                       `form:"expand"`
}

type CustomerInvoiceSettingsParams struct {
	DefaultPaymentMethod *string `form:"default_payment_method"`
}

// CustomerListParams are the parameters for listing Customers.
type CustomerListParams struct {
	ListParams
	Email   *string     `form:"email"`
	Created *RangeQuery `form:"created"`
}

var (
	customerCreate   = Endpoint{"POST", "/v1/customers"}
	customerRetrieve = Endpoint{"GET", "/v1/customers/{customer}"}
	customerUpdate   = Endpoint{"POST", "/v1/customers/{customer}"}
	customerDelete   = Endpoint{"DELETE", "/v1/customers/{customer}"}
	customerList     = Endpoint{"GET", "/v1/customers"}
)

// CreateCustomer creates a new Customer in Stripe with the given params and
// returns it.
func CreateCustomer(ctx context.Context, c *Client, params *CustomerParams, opts ...CallOption) (*Customer, error) {
	cus := &Customer{}

	if err := c.Call(ctx, customerCreate, nil, params, cus, opts...); err != nil {
		return nil, err
	}
	return cus, nil
}

// RetrieveCustomer gets the Customer with the given ID. A customer that has
// been deleted comes back as the tombstone face of the returned union.
func RetrieveCustomer(ctx context.Context, c *Client, id string, opts ...CallOption) (*DeletedOr[Customer], error) {
	out := &DeletedOr[Customer]{}

	err := c.Call(ctx, customerRetrieve, map[string]string{"customer": id}, nil, out, opts...)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCustomer updates the Customer with the given ID.
func UpdateCustomer(ctx context.Context, c *Client, id string, params *CustomerParams, opts ...CallOption) (*Customer, error) {
	cus := &Customer{}

	err := c.Call(ctx, customerUpdate, map[string]string{"customer": id}, params, cus, opts...)

	if err != nil {
		return nil, err
	}
	return cus, nil
}

// DeleteCustomer deletes the Customer with the given ID and returns the
// tombstone.
func DeleteCustomer(ctx context.Context, c *Client, id string, opts ...CallOption) (*Deleted, error) {
	del := &Deleted{}

	err := c.Call(ctx, customerDelete, map[string]string{"customer": id}, nil, del, opts...)

	if err != nil {
		return nil, err
	}
	return del, nil
}

// ListCustomers returns a pager over the customer collection.
func ListCustomers(ctx context.Context, c *Client, params *CustomerListParams) *Iter[Customer] {
	if params == nil {
		params = &CustomerListParams{}
	}
	return newIter(ctx, c, customerList, nil, params, func(c *Customer) string { return c.ID })
}
