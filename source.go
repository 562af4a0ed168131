package stripekit

import "encoding/json"

// BankAccountStatus is open, Stripe grows it over time. Values outside the
// known set decode as themselves and Known reports false.
type BankAccountStatus string

const (
	BankAccountStatusNew                BankAccountStatus = "new"
	BankAccountStatusValidated          BankAccountStatus = "validated"
	BankAccountStatusVerified           BankAccountStatus = "verified"
	BankAccountStatusVerificationFailed BankAccountStatus = "verification_failed"
	BankAccountStatusErrored            BankAccountStatus = "errored"
)

func (s BankAccountStatus) Known() bool {
	switch s {
	case BankAccountStatusNew, BankAccountStatusValidated, BankAccountStatusVerified,
		BankAccountStatusVerificationFailed, BankAccountStatusErrored:
		return true
	}
	return false
}

// BankAccount is the bank_account payment source.
type BankAccount struct {
	ID       string            `json:"id"`
	Object   string            `json:"object"`
	Last4    string            `json:"last4"`
	Status   BankAccountStatus `json:"status"`
	Currency Currency          `json:"currency"`
	BankName *string           `json:"bank_name"`
	Country  *string           `json:"country"`
}

type bankAccountBuilder struct {
	out      BankAccount
	id       *string
	last4    *string
	status   *BankAccountStatus
	currency *Currency
}

func (b *bankAccountBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "last4":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.last4 = &v
		}
	case "status":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			s := BankAccountStatus(v)
			b.status = &s
		}
	case "currency":
		var v Currency
		if v, err = decodeCurrency(name, raw); err == nil {
			b.currency = &v
		}
	case "bank_name":
		b.out.BankName, err = decodeNullString(name, raw)
	case "country":
		b.out.Country, err = decodeNullString(name, raw)
	}
	return err
}

func (b *bankAccountBuilder) finish() (*BankAccount, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.last4 == nil:
		return nil, errMissing("last4")
	case b.status == nil:
		return nil, errMissing("status")
	case b.currency == nil:
		return nil, errMissing("currency")
	}

	b.out.ID = *b.id
	b.out.Last4 = *b.last4
	b.out.Status = *b.status
	b.out.Currency = *b.currency
	return &b.out, nil
}

func (a *BankAccount) UnmarshalJSON(data []byte) error {
	b := bankAccountBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*a = *out
	return nil
}

// Card is the card payment source.
type Card struct {
	ID       string  `json:"id"`
	Object   string  `json:"object"`
	Brand    string  `json:"brand"`
	Last4    string  `json:"last4"`
	ExpMonth int64   `json:"exp_month"`
	ExpYear  int64   `json:"exp_year"`
	Funding  *string `json:"funding"`
	Country  *string `json:"country"`
}

type cardBuilder struct {
	out      Card
	id       *string
	brand    *string
	last4    *string
	expMonth *int64
	expYear  *int64
}

func (b *cardBuilder) field(name string, raw json.RawMessage) error {
	var err error

	switch name {
	case "id":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.id = &v
		}
	case "object":
		b.out.Object, err = decodeString(name, raw)
	case "brand":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.brand = &v
		}
	case "last4":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.last4 = &v
		}
	case "exp_month":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.expMonth = &v
		}
	case "exp_year":
		var v int64
		if v, err = decodeInt64(name, raw); err == nil {
			b.expYear = &v
		}
	case "funding":
		b.out.Funding, err = decodeNullString(name, raw)
	case "country":
		b.out.Country, err = decodeNullString(name, raw)
	}
	return err
}

func (b *cardBuilder) finish() (*Card, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.brand == nil:
		return nil, errMissing("brand")
	case b.last4 == nil:
		return nil, errMissing("last4")
	case b.expMonth == nil:
		return nil, errMissing("exp_month")
	case b.expYear == nil:
		return nil, errMissing("exp_year")
	}

	b.out.ID = *b.id
	b.out.Brand = *b.brand
	b.out.Last4 = *b.last4
	b.out.ExpMonth = *b.expMonth
	b.out.ExpYear = *b.expYear
	return &b.out, nil
}

func (c *Card) UnmarshalJSON(data []byte) error {
	b := cardBuilder{}

	if err := decodeObject(data, &b); err != nil {
		return err
	}

	out, err := b.finish()

	if err != nil {
		return err
	}
	*c = *out
	return nil
}

// Source is the generic source payment source.
type Source struct {
	ID     string  `json:"id"`
	Object string  `json:"object"`
	Type   string  `json:"type"`
	Status string  `json:"status"`
	Usage  *string `json:"usage"`
}

type sourceBuilder struct {
	out    Source
	id     *string
	typ    *string
	status *string
}

func (b *sourceBuilder) field(name string, raw json.RawMessage) error {
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
	case "status":
		var v string
		if v, err = decodeString(name, raw); err == nil {
			b.status = &v
		}
	case "usage":
		b.out.Usage, err = decodeNullString(name, raw)
	}
	return err
}

func (b *sourceBuilder) finish() (*Source, error) {
	switch {
	case b.id == nil:
		return nil, errMissing("id")
	case b.typ == nil:
		return nil, errMissing("type")
	case b.status == nil:
		return nil, errMissing("status")
	}

	b.out.ID = *b.id
	b.out.Type = *b.typ
	b.out.Status = *b.status
	return &b.out, nil
}

func (s *Source) UnmarshalJSON(data []byte) error {
	b := sourceBuilder{}

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

// PaymentSource is the polymorphic union of everything a customer can pay
// with, discriminated by the sibling object field. The payload is buffered
// and replayed into the concrete builder once the discriminant is known,
// Stripe does not guarantee the object field comes first.
type PaymentSource struct {
	BankAccount *BankAccount
	Card        *Card
	Source      *Source
}

// ID returns the ID of whichever concrete source was decoded.
func (s *PaymentSource) ID() string {
	switch {
	case s.BankAccount != nil:
		return s.BankAccount.ID
	case s.Card != nil:
		return s.Card.ID
	case s.Source != nil:
		return s.Source.ID
	}
	return ""
}

func (s *PaymentSource) UnmarshalJSON(data []byte) error {
	fields, err := bufferObject(data)

	if err != nil {
		return err
	}

	raw, ok := fields["object"]

	if !ok {
		return errMissing("object")
	}

	kind, err := decodeString("object", raw)

	if err != nil {
		return err
	}

	switch kind {
	case "bank_account":
		b := bankAccountBuilder{}
		if err := replayObject(fields, &b); err != nil {
			return err
		}
		s.BankAccount, err = b.finish()
	case "card":
		b := cardBuilder{}
		if err := replayObject(fields, &b); err != nil {
			return err
		}
		s.Card, err = b.finish()
	case "source":
		b := sourceBuilder{}
		if err := replayObject(fields, &b); err != nil {
			return err
		}
		s.Source, err = b.finish()
	default:
		return errType("object", "bank_account, card, or source, got "+kind)
	}
	return err
}

func (s *PaymentSource) MarshalJSON() ([]byte, error) {
	switch {
	case s.BankAccount != nil:
		return json.Marshal(s.BankAccount)
	case s.Card != nil:
		return json.Marshal(s.Card)
	case s.Source != nil:
		return json.Marshal(s.Source)
	}
	return []byte("null"), nil
}
