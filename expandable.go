package stripekit

import "encoding/json"

// Expandable is a reference field that Stripe returns either as a bare ID
// string or, when the request named it in expand[], as the full inlined
// object. The first non-whitespace byte of the value decides the face: a
// quote is an ID, a brace is the object. The expanded value is held behind a
// pointer so that mutually referential resources keep a finite size.
type Expandable[T any] struct {
	id    string
	value *T
}

// ID returns the referenced resource's ID whichever face was decoded.
func (e *Expandable[T]) ID() string { return e.id }

// Expanded returns the inlined object when the reference was expanded.
func (e *Expandable[T]) Expanded() (*T, bool) { return e.value, e.value != nil }

func (e *Expandable[T]) UnmarshalJSON(b []byte) error {
	switch firstByte(b) {
	case '"':
		id, err := decodeString("id", b)

		if err != nil {
			return err
		}
		e.id = id
		e.value = nil
		return nil
	case '{':
		var v T

		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		e.value = &v
		e.id = probeID(b)
		return nil
	}
	return errType("expandable", "ID string or object")
}

// MarshalJSON writes the ID face unless the object was expanded.
func (e *Expandable[T]) MarshalJSON() ([]byte, error) {
	if e.value != nil {
		return json.Marshal(e.value)
	}
	return json.Marshal(e.id)
}

func decodeExpandable[T any](field string, raw json.RawMessage) (*Expandable[T], error) {
	if isNull(raw) {
		return nil, nil
	}

	var e Expandable[T]

	if err := e.UnmarshalJSON(raw); err != nil {
		if de, ok := err.(*DecodeError); ok && de.Field == "expandable" {
			de.Field = field
		}
		return nil, err
	}
	return &e, nil
}

// Deleted is the tombstone Stripe returns for a resource that no longer
// exists, for example retrieving a deleted customer. It carries the same id
// shape as the live object and always has deleted set to true.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type deletedBuilder struct {
	id      *string
	object  *string
	deleted *bool
}

func (b *deletedBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.object = &v
		}
	case "deleted":
		var v bool
		if v, err = decodeBool(name, raw); err == nil {
			b.deleted = &v
		}
	}
	return err
}

func (b *deletedBuilder) finish() (*Deleted, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.object == nil:
		return nil, errMissing("object")
	case b.deleted == nil:
		return nil, errMissing("deleted")
	}
	return &Deleted{ID: *b.id, Object: *b.object, Deleted: *b.deleted}, nil
}

// DeletedOr holds the result of an endpoint that can answer with either the
// live resource or its tombstone. The object is buffered and the deleted
// marker checked before either builder runs, the marker's position in the
// payload does not matter.
type DeletedOr[T any] struct {
	Deleted *Deleted
	Live    *T
}

// IsDeleted reports whether the tombstone face was decoded.
func (d *DeletedOr[T]) IsDeleted() bool { return d.Deleted != nil }

func (d *DeletedOr[T]) UnmarshalJSON(b []byte) error {
	fields, err := bufferObject(b)

	if err != nil {
		return err
	}

	if raw, ok := fields["deleted"]; ok && !isNull(raw) {
		del, err := decodeBool("deleted", raw)

		if err != nil {
			return err
		}

		if del {
			db := deletedBuilder{}

			if err := replayObject(fields, &db); err != nil {
				return err
			}

			tomb, err := db.finish()

			if err != nil {
				return err
			}
			d.Deleted = tomb
			d.Live = nil
			return nil
		}
	}

	var v T

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	d.Live = &v
	d.Deleted = nil
	return nil
}

func (d *DeletedOr[T]) MarshalJSON() ([]byte, error) {
	if d.Deleted != nil {
		return json.Marshal(d.Deleted)
	}
	return json.Marshal(d.Live)
}
