package stripekit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

const customerBody = `{"id": "cus_123456", "object": "customer", "created": 1700000000, "livemode": false, "balance": 0}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient("sk_test_123456", WithBaseURL(srv.URL))
	c.sleep = func(time.Duration) {}
	return c, srv
}

func Test_ClientHeaders(t *testing.T) {
	var req *http.Request

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req = r.Clone(r.Context())
		io.WriteString(w, customerBody)
	})

	_, err := CreateCustomer(context.Background(), c, &CustomerParams{
		Email: String("me@example.com"),
	}, WithIdempotencyKey("key_123456"), WithAccount("acct_123456"))

	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		header   string
		expected string
	}{
		{"Authorization", "Bearer sk_test_123456"},
		{"Stripe-Version", APIVersion},
		{"Content-Type", "application/x-www-form-urlencoded"},
		{"Idempotency-Key", "key_123456"},
		{"Stripe-Account", "acct_123456"},
	}

	for i, test := range tests {
		if v := req.Header.Get(test.header); v != test.expected {
			t.Errorf("tests[%d] - unexpected %s header, expected=%q, got=%q\n", i, test.header, test.expected, v)
		}
	}
}

func Test_ClientQueryEncoding(t *testing.T) {
	var query string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		io.WriteString(w, `{"object": "list", "data": [], "has_more": false, "url": "/v1/customers"}`)
	})

	it := ListCustomers(context.Background(), c, &CustomerListParams{
		ListParams: ListParams{Limit: Int64(3)},
		Email:      String("me@example.com"),
	})

	if it.Next() {
		t.Error("expected empty iteration")
	}

	if err := it.Err(); err != nil {
		t.Fatal(err)
	}

	expected := "email=me%40example.com&limit=3"

	if query != expected {
		t.Errorf("unexpected query, expected=%q, got=%q\n", expected, query)
	}
}

func Test_ClientErrorEnvelope(t *testing.T) {
	attempts := 0

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusPaymentRequired)
		io.WriteString(w, `{"error": {"type": "card_error", "code": "card_declined", "decline_code": "insufficient_funds", "message": "Your card has insufficient funds.", "charge": "ch_123456"}}`)
	})

	_, err := CreateCustomer(context.Background(), c, nil)

	var apiErr *Error

	if !errors.As(err, &apiErr) {
		t.Fatalf("expected Error, got %T\n", err)
	}

	if apiErr.StatusCode != 402 {
		t.Errorf("unexpected status code, expected=%d, got=%d\n", 402, apiErr.StatusCode)
	}

	if apiErr.Err.Code != "card_declined" {
		t.Errorf("unexpected code, expected=%q, got=%q\n", "card_declined", apiErr.Err.Code)
	}

	if apiErr.Err.DeclineCode != "insufficient_funds" {
		t.Errorf("unexpected decline code, expected=%q, got=%q\n", "insufficient_funds", apiErr.Err.DeclineCode)
	}

	if attempts != 1 {
		t.Errorf("expected a 402 not to be retried, got %d attempts\n", attempts)
	}
}

func Test_ClientRetryRateLimit(t *testing.T) {
	attempts := 0

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++

		if attempts < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error": {"type": "rate_limit_error", "message": "Too many requests"}}`)
			return
		}
		io.WriteString(w, customerBody)
	})

	slept := make([]time.Duration, 0, 2)
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	out, err := RetrieveCustomer(context.Background(), c, "cus_123456")

	if err != nil {
		t.Fatal(err)
	}

	if out.IsDeleted() {
		t.Error("expected live customer")
	}

	if attempts != 3 {
		t.Errorf("unexpected attempt count, expected=%d, got=%d\n", 3, attempts)
	}

	for i, d := range slept {
		if d != time.Second {
			t.Errorf("slept[%d] - expected Retry-After to be honored exactly, got %s\n", i, d)
		}
	}
}

func Test_ClientRetryExhausted(t *testing.T) {
	attempts := 0

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": {"type": "rate_limit_error", "message": "Too many requests"}}`)
	})

	_, err := RetrieveCustomer(context.Background(), c, "cus_123456")

	var apiErr *Error

	if !errors.As(err, &apiErr) {
		t.Fatalf("expected Error, got %T\n", err)
	}

	if !apiErr.RateLimited() {
		t.Error("expected rate limit error")
	}

	if attempts != 3 {
		t.Errorf("unexpected attempt count, expected=%d, got=%d\n", 3, attempts)
	}
}

func Test_ClientNoRetryBarePost(t *testing.T) {
	attempts := 0

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": {"type": "api_error", "message": "boom"}}`)
	})

	if _, err := CreateCustomer(context.Background(), c, nil); err == nil {
		t.Fatal("expected error")
	}

	if attempts != 1 {
		t.Errorf("expected a bare POST not to be retried, got %d attempts\n", attempts)
	}
}

func Test_ClientRetryPostWithKey(t *testing.T) {
	attempts := 0

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++

		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error": {"type": "api_error", "message": "boom"}}`)
			return
		}
		io.WriteString(w, customerBody)
	})

	_, err := CreateCustomer(context.Background(), c, nil, WithIdempotencyKey("key_123456"))

	if err != nil {
		t.Fatal(err)
	}

	if attempts != 2 {
		t.Errorf("unexpected attempt count, expected=%d, got=%d\n", 2, attempts)
	}
}

func Test_ClientCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, customerBody)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetrieveCustomer(ctx, c, "cus_123456")

	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v\n", err)
	}
}

func Test_ClientTransportFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>upstream exploded</html>")
	})

	_, err := CreateCustomer(context.Background(), c, nil)

	var te *TransportError

	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T\n", err)
	}

	if te.StatusCode != 502 {
		t.Errorf("unexpected status code, expected=%d, got=%d\n", 502, te.StatusCode)
	}

	if te.Snippet == "" {
		t.Error("expected body snippet")
	}
}

func Test_Live(t *testing.T) {
	secret := os.Getenv("STRIPE_SECRET")

	if secret == "" {
		t.Skip("STRIPE_SECRET not set, skipping")
	}

	c := NewClient(secret)
	ctx := context.Background()

	cus, err := CreateCustomer(ctx, c, &CustomerParams{
		Email: String("customer@stripekit.test"),
		Name:  String("stripekit test"),
	})

	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if _, err := DeleteCustomer(ctx, c, cus.ID); err != nil {
			t.Error(err)
		}
	}()

	out, err := RetrieveCustomer(ctx, c, cus.ID)

	if err != nil {
		t.Fatal(err)
	}

	if out.IsDeleted() {
		t.Fatal("expected live customer")
	}

	if out.Live.ID != cus.ID {
		t.Errorf("unexpected customer id, expected=%q, got=%q\n", cus.ID, out.Live.ID)
	}
}

func Test_EndpointBind(t *testing.T) {
	tests := []struct {
		ep          Endpoint
		vars        map[string]string
		expected    string
		shouldError bool
	}{
		{
			Endpoint{"GET", "/v1/customers/{customer}"},
			map[string]string{"customer": "cus_123456"},
			"/v1/customers/cus_123456",
			false,
		},
		{
			Endpoint{"GET", "/v1/customers/{customer}"},
			map[string]string{"customer": "cus/../../evil"},
			"/v1/customers/cus%2F..%2F..%2Fevil",
			false,
		},
		{
			Endpoint{"GET", "/v1/customers/{customer}"},
			map[string]string{"customer": ""},
			"",
			true,
		},
		{
			Endpoint{"GET", "/v1/customers/{customer}"},
			nil,
			"",
			true,
		},
	}

	for i, test := range tests {
		path, err := test.ep.bind(test.vars)

		if test.shouldError {
			if err == nil {
				t.Errorf("tests[%d] - expected bind to fail, it did not\n", i)
			}
			continue
		}

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if path != test.expected {
			t.Errorf("tests[%d] - unexpected path, expected=%q, got=%q\n", i, test.expected, path)
		}
	}
}
