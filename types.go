package stripekit

import (
	"encoding/json"
	"time"
)

// Timestamp is a point in time the way Stripe represents one, as signed Unix
// seconds. It only ever appears as a JSON number, a quoted timestamp is a
// decode error.
type Timestamp int64

// Time returns the Timestamp as a time.Time in UTC.
func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0).UTC() }

// Now returns the current time as a Timestamp.
func Now() Timestamp { return Timestamp(time.Now().Unix()) }

// Metadata is the set of free-form key/value pairs that can be attached to
// most Stripe resources. Individual keys are unset by sending empty strings.
type Metadata map[string]string

// UnmarshalJSON decodes metadata, treating JSON null as an empty mapping.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*m = Metadata{}
		return nil
	}

	var raw map[string]string

	if err := json.Unmarshal(b, &raw); err != nil {
		return errType("metadata", "object of strings")
	}
	*m = raw
	return nil
}

// RangeQuery bounds a timestamp-valued field in list requests. Each non-nil
// bound is encoded as its own bracketed key, for example created[gte]=10.
type RangeQuery struct {
	GT  *Timestamp `form:"gt"`
	GTE *Timestamp `form:"gte"`
	LT  *Timestamp `form:"lt"`
	LTE *Timestamp `form:"lte"`
}

// Int64 returns a pointer to the given int64. Request parameter structs use
// pointer fields so that unset values are omitted from the encoded body.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to the given string.
func String(v string) *string { return &v }

// Bool returns a pointer to the given bool.
func Bool(v bool) *bool { return &v }

// Ts returns a pointer to the given value as a Timestamp.
func Ts(v int64) *Timestamp {
	t := Timestamp(v)
	return &t
}

// Cur returns a pointer to the given Currency.
func Cur(c Currency) *Currency { return &c }
