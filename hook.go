package stripekit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift from the current
// time before the signature is rejected.
const DefaultTolerance = 300 * time.Second

var (
	ErrBadSignatureHeader = errors.New("stripekit: malformed Stripe-Signature header")
	ErrTooOld             = errors.New("stripekit: webhook timestamp outside of tolerance")
	ErrNoValidSignature   = errors.New("stripekit: no valid signature in Stripe-Signature header")
)

// Verifier checks the Stripe-Signature header on webhook payloads. Multiple
// secrets can be given so that endpoints keep verifying during secret
// rotation.
type Verifier struct {
	secrets   [][]byte
	tolerance time.Duration

	now func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithTolerance overrides DefaultTolerance. A negative tolerance disables the
// timestamp check entirely, zero only accepts a timestamp matching the clock.
func WithTolerance(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.tolerance = d
	}
}

// WithSecret adds another secret to verify against.
func WithSecret(secret string) VerifierOption {
	return func(v *Verifier) {
		v.secrets = append(v.secrets, []byte(secret))
	}
}

func withClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier returns a Verifier for the given signing secret.
func NewVerifier(secret string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secrets:   [][]byte{[]byte(secret)},
		tolerance: DefaultTolerance,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewVerifierFromReader returns a Verifier with one secret per line read
// from the given io.Reader, skipping blank lines and # comments. This is for
// loading rotated secrets from a file.
func NewVerifierFromReader(r io.Reader, opts ...VerifierOption) (*Verifier, error) {
	secrets := make([][]byte, 0)

	err := scanlines(r, func(line string) {
		secrets = append(secrets, []byte(line))
	})

	if err != nil {
		return nil, err
	}

	if len(secrets) == 0 {
		return nil, errors.New("stripekit: no secrets read")
	}

	v := &Verifier{
		secrets:   secrets,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// maxPayloadLen caps how much of a webhook request body is read. A payload
// truncated at the cap fails signature verification.
const maxPayloadLen = 1 << 16

type signatureHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

// parseSignatureHeader pulls the t and v1 pairs out of a Stripe-Signature
// header. Pairs with other prefixes are ignored, v1 may repeat. A header
// missing t, or carrying no decodable v1 at all, is malformed.
func parseSignatureHeader(header string) (*signatureHeader, error) {
	if header == "" {
		return nil, ErrBadSignatureHeader
	}

	sh := signatureHeader{
		signatures: make([][]byte, 0, 1),
	}

	for _, pair := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")

		if !ok {
			return nil, ErrBadSignatureHeader
		}

		switch k {
		case "t":
			sec, err := strconv.ParseInt(val, 10, 64)

			if err != nil {
				return nil, ErrBadSignatureHeader
			}
			sh.timestamp = time.Unix(sec, 0)
		case "v1":
			sig, err := hex.DecodeString(val)

			if err != nil {
				continue
			}
			sh.signatures = append(sh.signatures, sig)
		}
	}

	if sh.timestamp.IsZero() || len(sh.signatures) == 0 {
		return nil, ErrBadSignatureHeader
	}
	return &sh, nil
}

func signPayload(secret []byte, timestamp time.Time, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// Verify checks the given payload against the given Stripe-Signature header.
// The timestamp is checked before any signature so expired payloads are
// rejected even when correctly signed.
func (v *Verifier) Verify(payload []byte, header string) error {
	sh, err := parseSignatureHeader(header)

	if err != nil {
		return err
	}

	if v.tolerance >= 0 {
		diff := v.now().Sub(sh.timestamp)

		if diff > v.tolerance || diff < -v.tolerance {
			return ErrTooOld
		}
	}

	for _, secret := range v.secrets {
		want := signPayload(secret, sh.timestamp, payload)

		for _, sig := range sh.signatures {
			if hmac.Equal(want, sig) {
				return nil
			}
		}
	}
	return ErrNoValidSignature
}

// ConstructEvent verifies the payload against the header and, if the
// signature holds, decodes the payload into an Event.
func (v *Verifier) ConstructEvent(payload []byte, header string) (*Event, error) {
	if err := v.Verify(payload, header); err != nil {
		return nil, err
	}

	ev := &Event{}

	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// HookHandlerFunc is the handler function that is registered against an
// event type. This is like an http.HandlerFunc, only the first argument it
// is passed is the decoded event sent from Stripe.
type HookHandlerFunc func(*Event, http.ResponseWriter, *http.Request)

// HookHandler provides a way of registering handlers against the different
// events emitted by Stripe.
type HookHandler struct {
	mu       sync.RWMutex
	errh     func(error)
	verifier *Verifier
	store    Store
	events   map[string]HookHandlerFunc
}

// NewHookHandler returns a HookHandler using the given Verifier for request
// verification, and the given callback for handling any errors that occur
// during request verification. The Store, if not nil, is used to drop events
// that have already been handled.
func NewHookHandler(v *Verifier, s Store, errh func(error)) *HookHandler {
	return &HookHandler{
		errh:     errh,
		verifier: v,
		store:    s,
		events:   make(map[string]HookHandlerFunc),
	}
}

// Handle registers a new handler for the given event type. If a handler was
// already registered against the given event type, then that handler will be
// overwritten with the new handler.
func (h *HookHandler) Handle(event string, fn HookHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[event] = fn
}

// HandlerFunc should be registered in the route multiplexer being used to
// register routes in the web server. For example,
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/stripe-hook", hook.HandlerFunc)
//
// this would cause the HookHandler to handle all of the requests sent to the
// "/stripe-hook" endpoint.
func (h *HookHandler) HandlerFunc(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadLen))

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := h.verifier.ConstructEvent(payload, r.Header.Get("Stripe-Signature"))

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.store != nil {
		if err := h.store.LogEvent(event.ID); err != nil {
			if !errors.Is(err, ErrEventExists) {
				h.errh(err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if fn, ok := h.events[event.Type]; ok {
		fn(event, w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}
