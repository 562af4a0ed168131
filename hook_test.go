package stripekit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var hookClock = time.Unix(1700000000, 0)

func signHeader(secret string, ts time.Time, payload []byte) string {
	sig := signPayload([]byte(secret), ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func newTestVerifier(secrets ...string) *Verifier {
	v := NewVerifier(secrets[0], withClock(func() time.Time { return hookClock }))

	for _, s := range secrets[1:] {
		WithSecret(s)(v)
	}
	return v
}

func Test_VerifierVerify(t *testing.T) {
	payload := []byte(`{"id": "evt_123456", "type": "customer.created"}`)

	tests := []struct {
		header   string
		expected error
	}{
		{
			signHeader("whsec_123456", hookClock, payload),
			nil,
		},
		{
			signHeader("whsec_123456", hookClock.Add(-299*time.Second), payload),
			nil,
		},
		{
			signHeader("whsec_123456", hookClock.Add(-301*time.Second), payload),
			ErrTooOld,
		},
		{
			signHeader("whsec_123456", hookClock.Add(301*time.Second), payload),
			ErrTooOld,
		},
		{
			signHeader("whsec_other", hookClock, payload),
			ErrNoValidSignature,
		},
		{
			"",
			ErrBadSignatureHeader,
		},
		{
			"t=notanumber,v1=abcdef",
			ErrBadSignatureHeader,
		},
		{
			"v1=" + hex.EncodeToString(signPayload([]byte("whsec_123456"), hookClock, payload)),
			ErrBadSignatureHeader,
		},
		{
			fmt.Sprintf("t=%d", hookClock.Unix()),
			ErrBadSignatureHeader,
		},
		{
			fmt.Sprintf("t=%d,v1=nothex", hookClock.Unix()),
			ErrBadSignatureHeader,
		},
	}

	v := newTestVerifier("whsec_123456")

	for i, test := range tests {
		err := v.Verify(payload, test.header)

		if !errors.Is(err, test.expected) {
			t.Errorf("tests[%d] - unexpected result, expected=%v, got=%v\n", i, test.expected, err)
		}
	}
}

func Test_VerifierTamperedPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_123456", "amount": 2000}`)
	header := signHeader("whsec_123456", hookClock, payload)

	v := newTestVerifier("whsec_123456")

	tampered := []byte(`{"id": "evt_123456", "amount": 9000}`)

	if err := v.Verify(tampered, header); !errors.Is(err, ErrNoValidSignature) {
		t.Fatalf("expected ErrNoValidSignature, got %v\n", err)
	}
}

func Test_VerifierRotatedSecret(t *testing.T) {
	payload := []byte(`{"id": "evt_123456"}`)

	v := newTestVerifier("whsec_new", "whsec_old")

	if err := v.Verify(payload, signHeader("whsec_old", hookClock, payload)); err != nil {
		t.Fatalf("old secret should still verify, got %v\n", err)
	}

	if err := v.Verify(payload, signHeader("whsec_new", hookClock, payload)); err != nil {
		t.Fatalf("new secret should verify, got %v\n", err)
	}
}

func Test_VerifierMultipleSignatures(t *testing.T) {
	payload := []byte(`{"id": "evt_123456"}`)

	good := hex.EncodeToString(signPayload([]byte("whsec_123456"), hookClock, payload))
	bad := hex.EncodeToString(signPayload([]byte("whsec_other"), hookClock, payload))

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s,v0=ignored", hookClock.Unix(), bad, good)

	v := newTestVerifier("whsec_123456")

	if err := v.Verify(payload, header); err != nil {
		t.Fatalf("one matching signature should be enough, got %v\n", err)
	}
}

func Test_VerifierZeroTolerance(t *testing.T) {
	payload := []byte(`{"id": "evt_123456"}`)

	v := NewVerifier("whsec_123456",
		WithTolerance(0),
		withClock(func() time.Time { return hookClock }),
	)

	if err := v.Verify(payload, signHeader("whsec_123456", hookClock, payload)); err != nil {
		t.Fatalf("a timestamp matching the clock should verify, got %v\n", err)
	}

	header := signHeader("whsec_123456", hookClock.Add(-time.Second), payload)

	if err := v.Verify(payload, header); !errors.Is(err, ErrTooOld) {
		t.Fatalf("expected ErrTooOld, got %v\n", err)
	}
}

func Test_VerifierDisabledTolerance(t *testing.T) {
	payload := []byte(`{"id": "evt_123456"}`)

	v := NewVerifier("whsec_123456",
		WithTolerance(-1),
		withClock(func() time.Time { return hookClock }),
	)

	header := signHeader("whsec_123456", hookClock.Add(-24*time.Hour), payload)

	if err := v.Verify(payload, header); err != nil {
		t.Fatalf("negative tolerance should skip the timestamp check, got %v\n", err)
	}
}

func Test_VerifierFromReader(t *testing.T) {
	secrets := strings.NewReader(`
# current
whsec_new

# kept during rotation
whsec_old
`)

	v, err := NewVerifierFromReader(secrets, withClock(func() time.Time { return hookClock }))

	if err != nil {
		t.Fatal(err)
	}

	payload := []byte(`{"id": "evt_123456"}`)

	if err := v.Verify(payload, signHeader("whsec_old", hookClock, payload)); err != nil {
		t.Fatalf("secret from file should verify, got %v\n", err)
	}

	if _, err := NewVerifierFromReader(strings.NewReader("# only comments\n")); err == nil {
		t.Error("expected an empty secrets file to fail")
	}
}

func Test_VerifierConstructEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "customer.created",
		"data": {
			"object": {"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0}
		}
	}`)

	v := newTestVerifier("whsec_123456")

	ev, err := v.ConstructEvent(payload, signHeader("whsec_123456", hookClock, payload))

	if err != nil {
		t.Fatal(err)
	}

	if ev.ID != "evt_123456" {
		t.Errorf("unexpected event id, expected=%q, got=%q\n", "evt_123456", ev.ID)
	}

	if _, err := v.ConstructEvent(payload, signHeader("whsec_other", hookClock, payload)); err == nil {
		t.Error("expected bad signature to fail, it did not")
	}
}

func hookRequest(payload []byte, header string) *http.Request {
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", header)
	return req
}

func Test_HookHandler(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123456",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "customer.created",
		"data": {
			"object": {"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0}
		}
	}`)

	var verifyErrs []error
	handled := 0

	hook := NewHookHandler(newTestVerifier("whsec_123456"), NewMemStore(), func(err error) {
		verifyErrs = append(verifyErrs, err)
	})

	hook.Handle("customer.created", func(ev *Event, w http.ResponseWriter, r *http.Request) {
		handled++

		if _, ok := ev.Data.Object.(*Customer); !ok {
			t.Errorf("expected *Customer, got %T\n", ev.Data.Object)
		}
		w.WriteHeader(http.StatusOK)
	})

	header := signHeader("whsec_123456", hookClock, payload)

	w := httptest.NewRecorder()
	hook.HandlerFunc(w, hookRequest(payload, header))

	if w.Code != http.StatusOK {
		t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusOK, w.Code)
	}

	if handled != 1 {
		t.Errorf("unexpected handler invocations, expected=%d, got=%d\n", 1, handled)
	}

	// Redelivery of the same event is dropped by the store.
	w = httptest.NewRecorder()
	hook.HandlerFunc(w, hookRequest(payload, header))

	if w.Code != http.StatusAccepted {
		t.Errorf("unexpected status on redelivery, expected=%d, got=%d\n", http.StatusAccepted, w.Code)
	}

	if handled != 1 {
		t.Errorf("redelivery must not reach the handler, got %d invocations\n", handled)
	}

	// A bad signature never reaches the handler either.
	w = httptest.NewRecorder()
	hook.HandlerFunc(w, hookRequest(payload, signHeader("whsec_other", hookClock, payload)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("unexpected status for bad signature, expected=%d, got=%d\n", http.StatusBadRequest, w.Code)
	}

	if len(verifyErrs) != 1 {
		t.Errorf("expected one verification error, got %d\n", len(verifyErrs))
	}
}

func Test_HookHandlerOversizedBody(t *testing.T) {
	payload := []byte(`{"id": "evt_123456", "pad": "` + strings.Repeat("a", maxPayloadLen) + `"}`)

	var verifyErrs []error

	hook := NewHookHandler(newTestVerifier("whsec_123456"), nil, func(err error) {
		verifyErrs = append(verifyErrs, err)
	})

	w := httptest.NewRecorder()
	hook.HandlerFunc(w, hookRequest(payload, signHeader("whsec_123456", hookClock, payload)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusBadRequest, w.Code)
	}

	if len(verifyErrs) != 1 || !errors.Is(verifyErrs[0], ErrNoValidSignature) {
		t.Errorf("expected ErrNoValidSignature from the truncated body, got %v\n", verifyErrs)
	}
}

func Test_HookHandlerUnregisteredEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_654321",
		"object": "event",
		"created": 1700000000,
		"livemode": false,
		"type": "product.created",
		"data": {
			"object": {"id": "prod_123456", "object": "product", "active": true, "created": 1700000000, "livemode": false, "name": "thing"}
		}
	}`)

	hook := NewHookHandler(newTestVerifier("whsec_123456"), nil, func(err error) {
		t.Errorf("unexpected error callback: %s\n", err)
	})

	w := httptest.NewRecorder()
	hook.HandlerFunc(w, hookRequest(payload, signHeader("whsec_123456", hookClock, payload)))

	if w.Code != http.StatusOK {
		t.Errorf("unexpected status, expected=%d, got=%d\n", http.StatusOK, w.Code)
	}
}
