package stripekit

import (
	"encoding/json"
	"testing"
)

func Test_EventDecode(t *testing.T) {
	raw := `{
		"id": "evt_123456",
		"object": "event",
		"api_version": "2024-06-20",
		"created": 1700000000,
		"livemode": false,
		"pending_webhooks": 1,
		"request": {"id": "req_123456", "idempotency_key": null},
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123456",
				"object": "payment_intent",
				"amount": 2000,
				"currency": "usd",
				"created": 1700000000,
				"livemode": false,
				"status": "succeeded"
			}
		}
	}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatal(err)
	}

	if ev.Type != "payment_intent.succeeded" {
		t.Errorf("unexpected type, expected=%q, got=%q\n", "payment_intent.succeeded", ev.Type)
	}

	pi, ok := ev.Data.Object.(*PaymentIntent)

	if !ok {
		t.Fatalf("expected *PaymentIntent, got %T\n", ev.Data.Object)
	}

	if pi.ID != "pi_123456" || pi.Amount != 2000 {
		t.Error("payment intent not decoded")
	}

	if len(ev.Data.Raw) == 0 {
		t.Error("raw payload not preserved")
	}
}

// The type field arriving after data must not matter, the registry lookup
// happens once the whole envelope has been walked.
func Test_EventDecodeTypeAfterData(t *testing.T) {
	raw := `{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"data": {
			"object": {"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0}
		},
		"type": "customer.created"
	}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatal(err)
	}

	if _, ok := ev.Data.Object.(*Customer); !ok {
		t.Fatalf("expected *Customer, got %T\n", ev.Data.Object)
	}
}

func Test_EventDecodePolymorphic(t *testing.T) {
	raw := `{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "customer.source.created",
		"data": {
			"object": {"id": "card_123456", "object": "card", "brand": "visa", "last4": "4242", "exp_month": 12, "exp_year": 2030}
		}
	}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatal(err)
	}

	src, ok := ev.Data.Object.(*PaymentSource)

	if !ok {
		t.Fatalf("expected *PaymentSource, got %T\n", ev.Data.Object)
	}

	if src.Card == nil || src.Card.Last4 != "4242" {
		t.Error("card source not decoded")
	}
}

func Test_EventDecodeUnknownType(t *testing.T) {
	raw := `{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "treasury.outbound_payment.posted",
		"data": {
			"object": {"id": "obp_123456", "object": "treasury.outbound_payment"}
		}
	}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatal(err)
	}

	if ev.Data.Object != nil {
		t.Errorf("expected no typed object for unknown event type, got %T\n", ev.Data.Object)
	}

	var obj map[string]interface{}

	if err := json.Unmarshal(ev.Data.Raw, &obj); err != nil {
		t.Fatal(err)
	}

	if obj["id"] != "obp_123456" {
		t.Error("raw payload not preserved")
	}
}

func Test_EventDecodePreviousAttributes(t *testing.T) {
	raw := `{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "customer.updated",
		"data": {
			"object": {"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0},
			"previous_attributes": {"balance": 250}
		}
	}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatal(err)
	}

	prev, ok := ev.Data.PreviousAttributes["balance"]

	if !ok {
		t.Fatal("previous_attributes not decoded")
	}

	if string(prev) != "250" {
		t.Errorf("unexpected previous balance, expected=%q, got=%q\n", "250", prev)
	}
}

func Test_EventDecodeMissingData(t *testing.T) {
	raw := `{"id": "evt_123456", "object": "event", "created": 1700000000, "livemode": false, "type": "customer.created"}`

	var ev Event

	if err := json.Unmarshal([]byte(raw), &ev); err == nil {
		t.Error("expected decode without data to fail, it did not")
	}
}

// Every registered decoder must produce the resource its event type names,
// the table is easy to typo when new types are added.
func Test_EventRegistryCoverage(t *testing.T) {
	for typ, decode := range eventObjects {
		if decode == nil {
			t.Errorf("event type %q has a nil decoder\n", typ)
		}
	}

	for _, typ := range []string{
		"customer.created",
		"customer.source.created",
		"customer.subscription.deleted",
		"invoice.payment_failed",
		"payment_intent.succeeded",
		"checkout.session.completed",
		"charge.refunded",
		"refund.created",
	} {
		if _, ok := eventObjects[typ]; !ok {
			t.Errorf("event type %q missing from the registry\n", typ)
		}
	}
}
