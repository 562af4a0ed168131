package stripekit

import (
	"context"
	"encoding/json"
)

// EventRequest holds details about the API request that triggered an event.
type EventRequest struct {
	ID             *string `json:"id"`
	IdempotencyKey *string `json:"idempotency_key"`
}

// EventData wraps the resource an event occurred on. Raw always holds the
// verbatim payload of the resource. Object holds the typed resource when the
// event type is in the registry, otherwise it is nil and Raw is all there is.
type EventData struct {
	Raw                json.RawMessage
	Object             interface{}
	PreviousAttributes map[string]json.RawMessage
}

// Event is the Event resource from Stripe.
type Event struct {
	ID              string        `json:"id"`
	Object          string        `json:"object"`
	Type            string        `json:"type"`
	Created         Timestamp     `json:"created"`
	Livemode        bool          `json:"livemode"`
	APIVersion      *string       `json:"api_version"`
	PendingWebhooks int64         `json:"pending_webhooks"`
	Request         *EventRequest `json:"request"`
	Data            *EventData    `json:"data"`
}

func decodeAs[T any](raw json.RawMessage) (interface{}, error) {
	v := new(T)

	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

// eventObjects maps event types to the decoder for the resource carried in
// data.object. Events not listed here still decode, they just carry no typed
// object.
var eventObjects = map[string]func(json.RawMessage) (interface{}, error){
	"customer.created": decodeAs[Customer],
	"customer.updated": decodeAs[Customer],
	"customer.deleted": decodeAs[Customer],

	"customer.source.created":  decodeAs[PaymentSource],
	"customer.source.updated":  decodeAs[PaymentSource],
	"customer.source.deleted":  decodeAs[PaymentSource],
	"customer.source.expiring": decodeAs[PaymentSource],

	"customer.subscription.created":        decodeAs[Subscription],
	"customer.subscription.updated":        decodeAs[Subscription],
	"customer.subscription.deleted":        decodeAs[Subscription],
	"customer.subscription.paused":         decodeAs[Subscription],
	"customer.subscription.resumed":        decodeAs[Subscription],
	"customer.subscription.trial_will_end": decodeAs[Subscription],

	"payment_method.attached": decodeAs[PaymentMethod],
	"payment_method.detached": decodeAs[PaymentMethod],
	"payment_method.updated":  decodeAs[PaymentMethod],

	"product.created": decodeAs[Product],
	"product.updated": decodeAs[Product],
	"product.deleted": decodeAs[Product],

	"price.created": decodeAs[Price],
	"price.updated": decodeAs[Price],
	"price.deleted": decodeAs[Price],

	"invoice.created":                 decodeAs[Invoice],
	"invoice.updated":                 decodeAs[Invoice],
	"invoice.deleted":                 decodeAs[Invoice],
	"invoice.finalized":               decodeAs[Invoice],
	"invoice.paid":                    decodeAs[Invoice],
	"invoice.payment_succeeded":       decodeAs[Invoice],
	"invoice.payment_failed":          decodeAs[Invoice],
	"invoice.payment_action_required": decodeAs[Invoice],
	"invoice.sent":                    decodeAs[Invoice],
	"invoice.upcoming":                decodeAs[Invoice],
	"invoice.voided":                  decodeAs[Invoice],
	"invoice.marked_uncollectible":    decodeAs[Invoice],

	"charge.succeeded": decodeAs[Charge],
	"charge.failed":    decodeAs[Charge],
	"charge.pending":   decodeAs[Charge],
	"charge.captured":  decodeAs[Charge],
	"charge.expired":   decodeAs[Charge],
	"charge.updated":   decodeAs[Charge],
	"charge.refunded":  decodeAs[Charge],

	"refund.created": decodeAs[Refund],
	"refund.updated": decodeAs[Refund],
	"refund.failed":  decodeAs[Refund],

	"payment_intent.created":                   decodeAs[PaymentIntent],
	"payment_intent.succeeded":                 decodeAs[PaymentIntent],
	"payment_intent.canceled":                  decodeAs[PaymentIntent],
	"payment_intent.processing":                decodeAs[PaymentIntent],
	"payment_intent.payment_failed":            decodeAs[PaymentIntent],
	"payment_intent.requires_action":           decodeAs[PaymentIntent],
	"payment_intent.amount_capturable_updated": decodeAs[PaymentIntent],
	"payment_intent.partially_funded":          decodeAs[PaymentIntent],

	"checkout.session.completed":               decodeAs[CheckoutSession],
	"checkout.session.expired":                 decodeAs[CheckoutSession],
	"checkout.session.async_payment_succeeded": decodeAs[CheckoutSession],
	"checkout.session.async_payment_failed":    decodeAs[CheckoutSession],
}

type eventDataBuilder struct {
	out EventData
	typ string
	raw *json.RawMessage
}

func (b *eventDataBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "object":
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		b.raw = &cp
	case "previous_attributes":
		if isNull(raw) {
			break
		}
		b.out.PreviousAttributes, err = bufferObject(raw)
	}
	return err
}

func (b *eventDataBuilder) finish() (*EventData, error) {
	if b.raw == nil {
		return nil, errMissing("object")
	}

	b.out.Raw = *b.raw

	if decode, ok := eventObjects[b.typ]; ok {
		obj, err := decode(b.out.Raw)

		if err != nil {
			return nil, err
		}
		b.out.Object = obj
	}
	return &b.out, nil
}

type eventBuilder struct {
	out      Event
	id       *string
	typ      *string
	created  *Timestamp
	livemode *bool
	data     json.RawMessage
}

func (b *eventBuilder) field(name string, raw json.RawMessage) error {
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
			b.typ = &v
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
	case "api_version":
		b.out.APIVersion, err = decodeNullString(name, raw)
	case "pending_webhooks":
		b.out.PendingWebhooks, err = decodeInt64(name, raw)
	case "request":
		if isNull(raw) {
			break
		}
		v := &EventRequest{}
		if err = json.Unmarshal(raw, v); err != nil {
			err = errType(name, "object")
			break
		}
		b.out.Request = v
	case "data":
		b.data = make(json.RawMessage, len(raw))
		copy(b.data, raw)
	}
	return err
}

func (b *eventBuilder) finish() (*Event, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.typ == nil:
		return nil, errMissing("type")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.data == nil:
		return nil, errMissing("data")
	}

	b.out.ID = *b.id
	b.out.Type = *b.typ
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode

	db := eventDataBuilder{typ: b.out.Type}

	if err := decodeObject(b.data, &db); err != nil {
		return nil, err
	}

	data, err := db.finish()

	if err != nil {
		return nil, err
	}

	b.out.Data = data
	return &b.out, nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	b := eventBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*e = *out
	return nil
}

// EventListParams are the parameters for listing Events.
type EventListParams struct {
	ListParams
	Type    *string     `form:"type"`
	Types   []string    `form:"types"`
	Created *RangeQuery `form:"created"`
}

var (
	eventRetrieve = Endpoint{"GET", "/v1/events/{event}"}
	eventList     = Endpoint{"GET", "/v1/events"}
)

// RetrieveEvent gets the Event with the given ID.
func RetrieveEvent(ctx context.Context, c *Client, id string, opts ...CallOption) (*Event, error) {
	ev := &Event{}

	err := c.Call(ctx, eventRetrieve, map[string]string{"event": id}, nil, ev, opts...)

	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListEvents returns a pager over the event collection.
func ListEvents(ctx context.Context, c *Client, params *EventListParams) *Iter[Event] {
	if params == nil {
		params = &EventListParams{}
	}
	return newIter(ctx, c, eventList, nil, params, func(ev *Event) string { return ev.ID })
}
