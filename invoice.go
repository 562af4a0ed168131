package stripekit

import (
	"context"
	"encoding/json"
)

// InvoiceStatus is open, values Stripe adds later decode as themselves.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceOpen          InvoiceStatus = "open"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceUncollectible InvoiceStatus = "uncollectible"
	InvoiceVoid          InvoiceStatus = "void"
)

func (s InvoiceStatus) Known() bool {
	switch s {
	case InvoiceDraft, InvoiceOpen, InvoicePaid, InvoiceUncollectible, InvoiceVoid:
		return true
	}
	return false
}

// Invoice is the Invoice resource from Stripe. ID is a pointer since the
// preview invoice returned from the upcoming endpoint has none.
type Invoice struct {
	ID               *string                    `json:"id"`
	Object           string                     `json:"object"`
	Created          Timestamp                  `json:"created"`
	Livemode         bool                       `json:"livemode"`
	Status           *InvoiceStatus             `json:"status"`
	Customer         *Expandable[Customer]      `json:"customer"`
	Subscription     *Expandable[Subscription]  `json:"subscription"`
	PaymentIntent    *Expandable[PaymentIntent] `json:"payment_intent"`
	Currency         Currency                   `json:"currency"`
	AmountDue        int64                      `json:"amount_due"`
	AmountPaid       int64                      `json:"amount_paid"`
	AmountRemaining  int64                      `json:"amount_remaining"`
	Number           *string                    `json:"number"`
	HostedInvoiceURL *string                    `json:"hosted_invoice_url"`
	InvoicePDF       *string                    `json:"invoice_pdf"`
	PeriodStart      Timestamp                  `json:"period_start"`
	PeriodEnd        Timestamp                  `json:"period_end"`
	Paid             bool                       `json:"paid"`
	Metadata         Metadata                   `json:"metadata"`
}

type invoiceBuilder struct {
	out      Invoice
	created  *Timestamp
	livemode *bool
	currency *Currency
	customer *Expandable[Customer]
}

func (b *invoiceBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		b.out.ID, err = decodeNullString(name, raw)
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
	case "status":
		var v *string
		if v, err = decodeNullString(name, raw); err == nil && v != nil {
			s := InvoiceStatus(*v)
			b.out.Status = &s
		}
	case "customer":
		b.customer, err = decodeExpandable[Customer](name, raw)
	case "subscription":
		b.out.Subscription, err = decodeExpandable[Subscription](name, raw)
	case "payment_intent":
		b.out.PaymentIntent, err = decodeExpandable[PaymentIntent](name, raw)
	case "currency":
		var v Currency
		if v, err = decodeCurrency(name, raw); err == nil {
			b.currency = &v
		}
	case "amount_due":
		b.out.AmountDue, err = decodeInt64(name, raw)
	case "amount_paid":
		b.out.AmountPaid, err = decodeInt64(name, raw)
	case "amount_remaining":
		b.out.AmountRemaining, err = decodeInt64(name, raw)
	case "number":
		b.out.Number, err = decodeNullString(name, raw)
	case "hosted_invoice_url":
		b.out.HostedInvoiceURL, err = decodeNullString(name, raw)
	case "invoice_pdf":
		b.out.InvoicePDF, err = decodeNullString(name, raw)
	case "period_start":
		b.out.PeriodStart, err = decodeTimestamp(name, raw)
	case "period_end":
		b.out.PeriodEnd, err = decodeTimestamp(name, raw)
	case "paid":
		b.out.Paid, err = decodeBool(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *invoiceBuilder) finish() (*Invoice, error) {
	switch {
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.currency == nil:
		return nil, errMissing("currency")
	case b.customer == nil:
		return nil, errMissing("customer")
	}

	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Currency = *b.currency
	b.out.Customer = b.customer
	return &b.out, nil
}

func (i *Invoice) UnmarshalJSON(data []byte) error {
	b := invoiceBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*i = *out
	return nil
}

// InvoiceParams are the parameters for creating or updating an Invoice.
type InvoiceParams struct {
	Customer     *string  `form:"customer"`
	Subscription *string  `form:"subscription"`
	AutoAdvance  *bool    `form:"auto_advance"`
	Description  *string  `form:"description"`
	Metadata     Metadata `form:"metadata"`
	Expand       []string `form:"expand"`
}

// InvoicePayParams are the parameters for paying an Invoice.
type InvoicePayParams struct {
	PaymentMethod *string  `form:"payment_method"`
	Source        *string  `form:"source"`
	PaidOutOfBand *bool    `form:"paid_out_of_band"`
	Expand        []string `form:"expand"`
}

// InvoiceFinalizeParams are the parameters for finalizing a draft Invoice.
type InvoiceFinalizeParams struct {
	AutoAdvance *bool    `form:"auto_advance"`
	Expand      []string `form:"expand"`
}

// InvoiceUpcomingParams are the parameters for previewing the upcoming
// Invoice for a customer or subscription.
type InvoiceUpcomingParams struct {
	Customer     *string  `form:"customer"`
	Subscription *string  `form:"subscription"`
	Expand       []string `form:"expand"`
}

// InvoiceListParams are the parameters for listing Invoices.
type InvoiceListParams struct {
	ListParams
	Customer     *string        `form:"customer"`
	Subscription *string        `form:"subscription"`
	Status       *InvoiceStatus `form:"status"`
	Created      *RangeQuery    `form:"created"`
}

var (
	invoiceCreate   = Endpoint{"POST", "/v1/invoices"}
	invoiceRetrieve = Endpoint{"GET", "/v1/invoices/{invoice}"}
	invoiceUpdate   = Endpoint{"POST", "/v1/invoices/{invoice}"}
	invoicePay      = Endpoint{"POST", "/v1/invoices/{invoice}/pay"}
	invoiceFinalize = Endpoint{"POST", "/v1/invoices/{invoice}/finalize"}
	invoiceUpcoming = Endpoint{"GET", "/v1/invoices/upcoming"}
	invoiceList     = Endpoint{"GET", "/v1/invoices"}
)

// CreateInvoice creates a new draft Invoice.
func CreateInvoice(ctx context.Context, c *Client, params *InvoiceParams, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	if err := c.Call(ctx, invoiceCreate, nil, params, in, opts...); err != nil {
		return nil, err
	}
	return in, nil
}

// RetrieveInvoice gets the Invoice with the given ID.
func RetrieveInvoice(ctx context.Context, c *Client, id string, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	err := c.Call(ctx, invoiceRetrieve, map[string]string{"invoice": id}, nil, in, opts...)

	if err != nil {
		return nil, err
	}
	return in, nil
}

// UpdateInvoice updates the Invoice with the given ID.
func UpdateInvoice(ctx context.Context, c *Client, id string, params *InvoiceParams, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	err := c.Call(ctx, invoiceUpdate, map[string]string{"invoice": id}, params, in, opts...)

	if err != nil {
		return nil, err
	}
	return in, nil
}

// PayInvoice attempts payment of the Invoice with the given ID.
func PayInvoice(ctx context.Context, c *Client, id string, params *InvoicePayParams, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	err := c.Call(ctx, invoicePay, map[string]string{"invoice": id}, params, in, opts...)

	if err != nil {
		return nil, err
	}
	return in, nil
}

// FinalizeInvoice finalizes the draft Invoice with the given ID.
func FinalizeInvoice(ctx context.Context, c *Client, id string, params *InvoiceFinalizeParams, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	err := c.Call(ctx, invoiceFinalize, map[string]string{"invoice": id}, params, in, opts...)

	if err != nil {
		return nil, err
	}
	return in, nil
}

// UpcomingInvoice previews the upcoming Invoice for the customer or
// subscription named in params. The returned invoice has no ID.
func UpcomingInvoice(ctx context.Context, c *Client, params *InvoiceUpcomingParams, opts ...CallOption) (*Invoice, error) {
	in := &Invoice{}

	if err := c.Call(ctx, invoiceUpcoming, nil, params, in, opts...); err != nil {
		return nil, err
	}
	return in, nil
}

// ListInvoices returns a pager over the invoice collection.
func ListInvoices(ctx context.Context, c *Client, params *InvoiceListParams) *Iter[Invoice] {
	if params == nil {
		params = &InvoiceListParams{}
	}
	return newIter(ctx, c, invoiceList, nil, params, func(in *Invoice) string {
		if in.ID == nil {
			return ""
		}
		return *in.ID
	})
}
