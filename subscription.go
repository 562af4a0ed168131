package stripekit

import (
	"context"
	"encoding/json"
)

// SubscriptionStatus is open, values Stripe adds later decode as themselves.
type SubscriptionStatus string

const (
	SubscriptionIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionTrialing          SubscriptionStatus = "trialing"
	SubscriptionActive            SubscriptionStatus = "active"
	SubscriptionPastDue           SubscriptionStatus = "past_due"
	SubscriptionCanceled          SubscriptionStatus = "canceled"
	SubscriptionUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionPaused            SubscriptionStatus = "paused"
)

func (s SubscriptionStatus) Known() bool {
	switch s {
	case SubscriptionIncomplete, SubscriptionIncompleteExpired, SubscriptionTrialing,
		SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled,
		SubscriptionUnpaid, SubscriptionPaused:
		return true
	}
	return false
}

// Valid reports whether the subscription is in a state where the customer
// should be given access to whatever the subscription is for.
func (s SubscriptionStatus) Valid() bool {
	return s == SubscriptionTrialing || s == SubscriptionActive
}

// SubscriptionItem is the SubscriptionItem resource from Stripe.
type SubscriptionItem struct {
	ID           string    `json:"id"`
	Object       string    `json:"object"`
	Created      Timestamp `json:"created"`
	Price        *Price    `json:"price"`
	Quantity     int64     `json:"quantity"`
	Subscription string    `json:"subscription"`
	Metadata     Metadata  `json:"metadata"`
}

type subscriptionItemBuilder struct {
	out     SubscriptionItem
	id      *string
	created *Timestamp
}

func (b *subscriptionItemBuilder) field(name string, raw json.RawMessage) error {
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
	case "price":
		if isNull(raw) {
			break
		}
		v := &Price{}
		if err = decodeInto(name, raw, v); err == nil {
			b.out.Price = v
		}
	case "quantity":
		b.out.Quantity, err = decodeInt64(name, raw)
	case "subscription":
		b.out.Subscription, err = decodeString(name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (i *SubscriptionItem) UnmarshalJSON(data []byte) error {
	b := subscriptionItemBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	switch {
	case b.id == nil:
		return errMissing("id")
	case b.created == nil:
		return errMissing("created")
	}

	b.out.ID = *b.id
	b.out.Created = *b.created
	*i = b.out
	return nil
}

// Subscription is the Subscription resource from Stripe.
type Subscription struct {
	ID                 string                  `json:"id"`
	Object             string                  `json:"object"`
	Created            Timestamp               `json:"created"`
	Livemode           bool                    `json:"livemode"`
	Status             SubscriptionStatus      `json:"status"`
	Customer           *Expandable[Customer]   `json:"customer"`
	Items              *List[SubscriptionItem] `json:"items"`
	CurrentPeriodStart Timestamp               `json:"current_period_start"`
	CurrentPeriodEnd   Timestamp               `json:"current_period_end"`
	CancelAtPeriodEnd  bool                    `json:"cancel_at_period_end"`
	CanceledAt         *Timestamp              `json:"canceled_at"`
	EndedAt            *Timestamp              `json:"ended_at"`
	LatestInvoice      *Expandable[Invoice]    `json:"latest_invoice"`
	Metadata           Metadata                `json:"metadata"`
}

type subscriptionBuilder struct {
	out      Subscription
	id       *string
	created  *Timestamp
	livemode *bool
	status   *SubscriptionStatus
	customer *Expandable[Customer]
}

func (b *subscriptionBuilder) field(name string, raw json.RawMessage) error {
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
	case "status":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			s := SubscriptionStatus(v)
			b.status = &s
		}
	case "customer":
		b.customer, err = decodeExpandable[Customer](name, raw)
	case "items":
		if isNull(raw) {
			break
		}
		v := &List[SubscriptionItem]{}
		if err = decodeInto(name, raw, v); err == nil {
			b.out.Items = v
		}
	case "current_period_start":
		b.out.CurrentPeriodStart, err = decodeTimestamp(name, raw)
	case "current_period_end":
		b.out.CurrentPeriodEnd, err = decodeTimestamp(name, raw)
	case "cancel_at_period_end":
		b.out.CancelAtPeriodEnd, err = decodeBool(name, raw)
	case "canceled_at":
		b.out.CanceledAt, err = decodeNullTimestamp(name, raw)
	case "ended_at":
		b.out.EndedAt, err = decodeNullTimestamp(name, raw)
	case "latest_invoice":
		b.out.LatestInvoice, err = decodeExpandable[Invoice](name, raw)
	case "metadata":
		b.out.Metadata, err = decodeMetadata(name, raw)
	}
	return err
}

func (b *subscriptionBuilder) finish() (*Subscription, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.created == nil:
		return nil, errMissing("created")
	case b.livemode == nil:
		return nil, errMissing("livemode")
	case b.status == nil:
		return nil, errMissing("status")
	case b.customer == nil:
		return nil, errMissing("customer")
	}

	b.out.ID = *b.id
	b.out.Created = *b.created
	b.out.Livemode = *b.livemode
	b.out.Status = *b.status
	b.out.Customer = b.customer
	return &b.out, nil
}

func (s *Subscription) UnmarshalJSON(data []byte) error {
	b := subscriptionBuilder{}

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

// SubscriptionItemParams are the parameters for an item on a Subscription.
type SubscriptionItemParams struct {
	Price    *string  `form:"price"`
	Quantity *int64   `form:"quantity"`
	Metadata Metadata `form:"metadata"`
}

// SubscriptionParams are the parameters for creating or updating a
// Subscription.
type SubscriptionParams struct {
	Customer          *string                   `form:"customer"`
	Items             []*SubscriptionItemParams `form:"items"`
	CancelAtPeriodEnd *bool                     `form:"cancel_at_period_end"`
	TrialPeriodDays   *int64                    `form:"trial_period_days"`
	Metadata          Metadata                  `form:"metadata"`
	Expand            []string                  `form:"expand"`
}

// SubscriptionCancelParams are the parameters for cancelling a Subscription.
type SubscriptionCancelParams struct {
	InvoiceNow *bool    `form:"invoice_now"`
	Prorate    *bool    `form:"prorate"`
	Expand     []string `form:"expand"`
}

// SubscriptionListParams are the parameters for listing Subscriptions.
type SubscriptionListParams struct {
	ListParams
	Customer *string             `form:"customer"`
	Price    *string             `form:"price"`
	Status   *SubscriptionStatus `form:"status"`
	Created  *RangeQuery         `form:"created"`
}

var (
	subscriptionCreate   = Endpoint{"POST", "/v1/subscriptions"}
	subscriptionRetrieve = Endpoint{"GET", "/v1/subscriptions/{subscription}"}
	subscriptionUpdate   = Endpoint{"POST", "/v1/subscriptions/{subscription}"}
	subscriptionCancel   = Endpoint{"DELETE", "/v1/subscriptions/{subscription}"}
	subscriptionList     = Endpoint{"GET", "/v1/subscriptions"}
)

// CreateSubscription creates a new Subscription.
func CreateSubscription(ctx context.Context, c *Client, params *SubscriptionParams, opts ...CallOption) (*Subscription, error) {
	s := &Subscription{}

	if err := c.Call(ctx, subscriptionCreate, nil, params, s, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// RetrieveSubscription gets the Subscription with the given ID.
func RetrieveSubscription(ctx context.Context, c *Client, id string, opts ...CallOption) (*Subscription, error) {
	s := &Subscription{}

	err := c.Call(ctx, subscriptionRetrieve, map[string]string{"subscription": id}, nil, s, opts...)

	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateSubscription updates the Subscription with the given ID.
func UpdateSubscription(ctx context.Context, c *Client, id string, params *SubscriptionParams, opts ...CallOption) (*Subscription, error) {
	s := &Subscription{}

	err := c.Call(ctx, subscriptionUpdate, map[string]string{"subscription": id}, params, s, opts...)

	if err != nil {
		return nil, err
	}
	return s, nil
}

// CancelSubscription cancels the Subscription with the given ID immediately.
// Use UpdateSubscription with CancelAtPeriodEnd to cancel at the period
// boundary instead.
func CancelSubscription(ctx context.Context, c *Client, id string, params *SubscriptionCancelParams, opts ...CallOption) (*Subscription, error) {
	s := &Subscription{}

	err := c.Call(ctx, subscriptionCancel, map[string]string{"subscription": id}, params, s, opts...)

	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSubscriptions returns a pager over the subscription collection.
func ListSubscriptions(ctx context.Context, c *Client, params *SubscriptionListParams) *Iter[Subscription] {
	if params == nil {
		params = &SubscriptionListParams{}
	}
	return newIter(ctx, c, subscriptionList, nil, params, func(s *Subscription) string { return s.ID })
}
