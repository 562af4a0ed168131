package stripekit

import (
	"context"
	"encoding/json"
)

// PriceType is open, values Stripe adds later decode as themselves.
type PriceType string

const (
	PriceTypeOneTime   PriceType = "one_time"
	PriceTypeRecurring PriceType = "recurring"
)

func (t PriceType) Known() bool {
	switch t {
	case PriceTypeOneTime, PriceTypeRecurring:
		return true
	}
	return false
}

// PriceInterval is open, values Stripe adds later decode as themselves.
type PriceInterval string

const (
	PriceIntervalDay   PriceInterval = "day"
	PriceIntervalWeek  PriceInterval = "week"
	PriceIntervalMonth PriceInterval = "month"
	PriceIntervalYear  PriceInterval = "year"
)

func (i PriceInterval) Known() bool {
	switch i {
	case PriceIntervalDay, PriceIntervalWeek, PriceIntervalMonth, PriceIntervalYear:
		return true
	}
	return false
}

// PriceRecurring is the recurring sub-object on Price.
type PriceRecurring struct {
	Interval      PriceInterval `json:"interval"`
	IntervalCount int64         `json:"interval_count"`
}

type priceRecurringBuilder struct {
	out      PriceRecurring
	interval *PriceInterval
	count    *int64
}

func (b *priceRecurringBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "interval":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			i := PriceInterval(v)
			b.interval = &i
		}
	case "interval_count":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.count = &v
		}
	}
	return err
}

func (r *PriceRecurring) UnmarshalJSON(data []byte) error {
	b := priceRecurringBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	switch {
	case b.interval == nil:
		return errMissing("interval")
	case b.count == nil:
		return errMissing("interval_count")
	}

	b.out.Interval = *b.interval
	b.out.IntervalCount = *b.count
	*r = b.out
	return nil
}

// Price is the Price resource from Stripe.
type Price struct {
	ID         string               `json:"id"`
	Object     string               `json:"object"`
	Active     bool                 `json:"active"`
	Created    Timestamp            `json:"created"`
	Livemode   bool                 `json:"livemode"`
	Currency   Currency             `json:"currency"`
	UnitAmount *int64               `json:"unit_amount"`
	Type       PriceType            `json:"type"`
	Product    *Expandable[Product] `json:"product"`
	Recurring  *PriceRecurring      `json:"recurring"`
	Metadata   Metadata             `json:"metadata"`
}

type priceBuilder struct {
	out      Price
	id       *string
	active   *bool
	created  *Timestamp
	livemode *bool
	currency *Currency
	typ      *PriceType
}

func (b *priceBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "active":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.active = &v
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
	case "currency":
		var v Currency
		if v, err = decodeCurrency(name, raw); err == nil {
			b.currency = &v
		}
	case "unit_amount":
		b.out.UnitAmount, err = decodeNullInt64(name, raw)
	case "type":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			t := PriceType(v)
			b.typ = &t
		}
	case "product":
		b.out.Product, err = decodeExpandable[Product](name, raw)
	case "recurring":
		if isNull(raw) {
			break
		}
		v := &PriceRecurring{}
		if err = decodeInto(name, raw, v); err == nil {
			b.out.Recurring = v
		}
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *priceBuilder) finish() (*Price, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.active == nil:
		return nil, errMissing("active")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.currency == nil:
		return nil, errMissing("currency")
	case b.typ == nil:
		return nil, errMissing("type")
	}

	b.out.ID = *b.id
	b.out.Active = *b.active
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Currency = *b.currency
	b.out.Type = *b.typ
	return &b.out, nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	b := priceBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*p = *out
	return nil
}

// PriceRecurringParams are the parameters for the recurring portion of a
// Price.
type PriceRecurringParams struct {
	Interval      PriceInterval `form:"interval" validate:"required"`
	IntervalCount *int64        `form:"interval_count"`
}

// PriceParams are the parameters for creating or updating a Price.
type PriceParams struct {
	Currency   *Currency             `form:"currency"`
	UnitAmount *int64                `form:"unit_amount"`
	Product    *string               `form:"product"`
	Active     *bool                 `form:"active"`
	Recurring  *PriceRecurringParams `form:"recurring"`
	Metadata   Metadata              `form:"metadata"`
	Expand     []string              `form:"expand"`
}

// PriceListParams are the parameters for listing Prices.
type PriceListParams struct {
	ListParams
	Active   *bool       `form:"active"`
	Currency *Currency   `form:"currency"`
	Product  *string     `form:"product"`
	Type     *PriceType  `form:"type"`
	Created  *RangeQuery `form:"created"`
}

var (
	priceCreate   = Endpoint{"POST", "/v1/prices"}
	priceRetrieve = Endpoint{"GET", "/v1/prices/{price}"}
	priceUpdate   = Endpoint{"POST", "/v1/prices/{price}"}
	priceList     = Endpoint{"GET", "/v1/prices"}
)

// CreatePrice creates a new Price.
func CreatePrice(ctx context.Context, c *Client, params *PriceParams, opts ...CallOption) (*Price, error) {
	p := &Price{}

	if err := c.Call(ctx, priceCreate, nil, params, p, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// RetrievePrice gets the Price with the given ID.
func RetrievePrice(ctx context.Context, c *Client, id string, opts ...CallOption) (*Price, error) {
	p := &Price{}

	err := c.Call(ctx, priceRetrieve, map[string]string{"price": id}, nil, p, opts...)

	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePrice updates the Price with the given ID. Prices cannot be deleted,
// only deactivated via the Active parameter.
func UpdatePrice(ctx context.Context, c *Client, id string, params *PriceParams, opts ...CallOption) (*Price, error) {
	p := &Price{}

	err := c.Call(ctx, priceUpdate, map[string]string{"price": id}, params, p, opts...)

	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPrices returns a pager over the price collection.
func ListPrices(ctx context.Context, c *Client, params *PriceListParams) *Iter[Price] {
	if params == nil {
		params = &PriceListParams{}
	}
	return newIter(ctx, c, priceList, nil, params, func(p *Price) string { return p.ID })
}
