package stripekit

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func Test_DecodeTimestamp(t *testing.T) {
	tests := []struct {
		raw         string
		expected    Timestamp
		shouldError bool
	}{
		{"1700000000", Timestamp(1700000000), false},
		{"0", Timestamp(0), false},
		{"-1", Timestamp(-1), false},
		{`"1700000000"`, 0, true},
		{`"2023-11-14T22:13:20Z"`, 0, true},
		{"true", 0, true},
	}

	for i, test := range tests {
		ts, err := decodeTimestamp("created", json.RawMessage(test.raw))

		if test.shouldError {
			if err == nil {
				t.Errorf("tests[%d] - expected decode of %q to fail, it did not\n", i, test.raw)
			}
			continue
		}

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if ts != test.expected {
			t.Errorf("tests[%d] - unexpected timestamp, expected=%d, got=%d\n", i, test.expected, ts)
		}
	}
}

func Test_DecodeCurrency(t *testing.T) {
	if _, err := decodeCurrency("currency", json.RawMessage(`"usd"`)); err != nil {
		t.Fatal(err)
	}

	_, err := decodeCurrency("currency", json.RawMessage(`"doubloons"`))

	var de *DecodeError

	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %T\n", err)
	}

	if de.Field != "currency" {
		t.Errorf("unexpected field, expected=%q, got=%q\n", "currency", de.Field)
	}
}

func Test_DecodeMetadataNull(t *testing.T) {
	m, err := decodeMetadata("metadata", json.RawMessage("null"))

	if err != nil {
		t.Fatal(err)
	}

	if m == nil {
		t.Fatal("expected empty metadata, got nil")
	}

	if len(m) != 0 {
		t.Errorf("expected empty metadata, got %d entries\n", len(m))
	}
}

func Test_BufferObject(t *testing.T) {
	fields, err := bufferObject([]byte(`{"object": "card", "last4": "4242", "deep": {"a": [1, 2]}}`))

	if err != nil {
		t.Fatal(err)
	}

	if len(fields) != 3 {
		t.Fatalf("unexpected field count, expected=%d, got=%d\n", 3, len(fields))
	}

	if string(fields["object"]) != `"card"` {
		t.Errorf("unexpected raw value, expected=%q, got=%q\n", `"card"`, fields["object"])
	}
}

func Test_DecodeObjectRejectsNonObject(t *testing.T) {
	for i, raw := range []string{`[]`, `"id"`, `12`, `null`} {
		if err := decodeObject([]byte(raw), fieldMap{}); err == nil {
			t.Errorf("tests[%d] - expected decode of %q to fail, it did not\n", i, raw)
		}
	}
}

func Test_Expandable(t *testing.T) {
	tests := []struct {
		raw        string
		expectedID string
		expanded   bool
	}{
		{`"cus_123456"`, "cus_123456", false},
		{
			`{"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0}`,
			"cus_123456",
			true,
		},
	}

	for i, test := range tests {
		var e Expandable[Customer]

		if err := json.Unmarshal([]byte(test.raw), &e); err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if e.ID() != test.expectedID {
			t.Errorf("tests[%d] - unexpected id, expected=%q, got=%q\n", i, test.expectedID, e.ID())
		}

		if _, ok := e.Expanded(); ok != test.expanded {
			t.Errorf("tests[%d] - unexpected expanded state, expected=%v, got=%v\n", i, test.expanded, ok)
		}
	}

	var e Expandable[Customer]

	if err := json.Unmarshal([]byte("12"), &e); err == nil {
		t.Error("expected decode of number to fail, it did not")
	}
}

func Test_DeletedOr(t *testing.T) {
	live := `{"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 250, "email": null}`

	var d DeletedOr[Customer]

	if err := json.Unmarshal([]byte(live), &d); err != nil {
		t.Fatal(err)
	}

	if d.IsDeleted() {
		t.Error("expected live customer, got tombstone")
	}

	if d.Live == nil || d.Live.ID != "cus_123456" {
		t.Error("live customer not decoded")
	}

	// The deleted discriminant appears after the fields it governs here.
	tombstone := `{"id": "cus_123456", "object": "customer", "deleted": true}`

	d = DeletedOr[Customer]{}

	if err := json.Unmarshal([]byte(tombstone), &d); err != nil {
		t.Fatal(err)
	}

	if !d.IsDeleted() {
		t.Error("expected tombstone, got live customer")
	}

	if d.Deleted.ID != "cus_123456" {
		t.Errorf("unexpected tombstone id, expected=%q, got=%q\n", "cus_123456", d.Deleted.ID)
	}
}

func Test_DeletedOrRoundTrip(t *testing.T) {
	tests := []struct {
		raw     string
		deleted bool
	}{
		{
			`{"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 250, "metadata": {"plan": "pro"}}`,
			false,
		},
		{
			`{"id": "cus_123456", "object": "customer", "deleted": true}`,
			true,
		},
	}

	for i, test := range tests {
		var first DeletedOr[Customer]

		if err := json.Unmarshal([]byte(test.raw), &first); err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		b, err := json.Marshal(&first)

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		var second DeletedOr[Customer]

		if err := json.Unmarshal(b, &second); err != nil {
			t.Fatalf("tests[%d] - re-decode failed: %s\n", i, err)
		}

		if second.IsDeleted() != test.deleted {
			t.Errorf("tests[%d] - unexpected face, expected deleted=%v, got=%v\n", i, test.deleted, second.IsDeleted())
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("tests[%d] - value changed over a round-trip\nfirst=%+v\nsecond=%+v\n", i, first, second)
		}
	}
}

func Test_OpenEnum(t *testing.T) {
	raw := `{
		"id": "ba_123456",
		"object": "bank_account",
		"last4": "6789",
		"currency": "usd",
		"status": "quantum_superposition"
	}`

	var ba BankAccount

	if err := json.Unmarshal([]byte(raw), &ba); err != nil {
		t.Fatal(err)
	}

	if ba.Status.Known() {
		t.Error("expected unknown status value")
	}

	if string(ba.Status) != "quantum_superposition" {
		t.Errorf("unexpected status, expected=%q, got=%q\n", "quantum_superposition", ba.Status)
	}
}
