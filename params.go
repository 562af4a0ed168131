package stripekit

import (
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Params is used for defining the parameters that are passed in the body of a
// request made to the Stripe API, as an alternative to the typed parameter
// structs. This will be encoded into a valid x-www-form-urlencoded payload.
type Params map[string]interface{}

var validate = validator.New(validator.WithRequiredStructEnabled())

type pair struct {
	key   string
	value string
}

func (p pair) encode() string { return p.key + "=" + url.QueryEscape(p.value) }

// knownEnum is implemented by the open input enums. Values outside the known
// set are refused at encode time, before any network traffic, since Stripe
// would reject them anyway.
type knownEnum interface {
	Known() bool
}

// formatScalar renders a single leaf value. Enum values outside their known
// set and currencies outside the ISO table fail here.
func formatScalar(key string, v reflect.Value) (string, error) {
	switch iv := v.Interface().(type) {
	case knownEnum:
		if !iv.Known() {
			return "", &ParamError{Param: key, Msg: fmt.Sprintf("unknown value %v", iv)}
		}
	case Currency:
		if !iv.Valid() {
			return "", &ParamError{Param: key, Msg: "unknown currency " + string(iv)}
		}
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return "", &ParamError{Param: key, Msg: "unsupported type " + v.Type().String()}
}

func isLeaf(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return false
	}
	return true
}

// encodeValue encodes an arbitrary parameter value under the given key,
// descending into structs, maps, and slices with bracketed path keys. Nil
// pointers and nil interfaces contribute nothing: an unset parameter is
// omitted entirely, never rendered as an empty string.
func encodeValue(key string, v reflect.Value) ([]pair, error) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return encodeStruct(key, v)
	case reflect.Map:
		return encodeMap(key, v)
	case reflect.Slice, reflect.Array:
		return encodeSlice(key, v)
	}

	s, err := formatScalar(key, v)

	if err != nil {
		return nil, err
	}
	return []pair{{key: key, value: s}}, nil
}

// encodeStruct walks exported fields carrying a form tag. Fields tagged "-"
// and nil pointer fields are skipped, untagged embedded structs are flattened
// into the parent's key space.
func encodeStruct(key string, v reflect.Value) ([]pair, error) {
	t := v.Type()
	pairs := make([]pair, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.PkgPath != "" {
			continue
		}

		tag := f.Tag.Get("form")

		if tag == "-" {
			continue
		}

		if tag == "" {
			if f.Anonymous {
				sub, err := encodeValue(key, v.Field(i))

				if err != nil {
					return nil, err
				}
				pairs = append(pairs, sub...)
			}
			continue
		}

		k := tag

		if key != "" {
			k = key + "[" + tag + "]"
		}

		sub, err := encodeValue(k, v.Field(i))

		if err != nil {
			return nil, err
		}
		pairs = append(pairs, sub...)
	}
	return pairs, nil
}

func encodeMap(key string, v reflect.Value) ([]pair, error) {
	pairs := make([]pair, 0, v.Len())

	if p, ok := v.Interface().(Params); ok {
		return p.encodeToPairs(key)
	}

	for _, mk := range v.MapKeys() {
		if mk.Kind() != reflect.String {
			return nil, &ParamError{Param: key, Msg: "map keys must be strings"}
		}

		k := mk.String()

		if key != "" {
			k = key + "[" + mk.String() + "]"
		}

		sub, err := encodeValue(k, v.MapIndex(mk))

		if err != nil {
			return nil, err
		}
		pairs = append(pairs, sub...)
	}
	return pairs, nil
}

// encodeSlice encodes slices of scalars as repeated key[] entries, the way
// expand directives and payment_method_types render, and slices of structs or
// maps with explicit indexes, key[0][x], so element fields stay grouped.
func encodeSlice(key string, v reflect.Value) ([]pair, error) {
	pairs := make([]pair, 0, v.Len())

	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)

		for e.Kind() == reflect.Ptr || e.Kind() == reflect.Interface {
			if e.IsNil() {
				break
			}
			e = e.Elem()
		}

		k := key + "[]"

		if !isLeaf(e) {
			k = key + "[" + strconv.Itoa(i) + "]"
		}

		sub, err := encodeValue(k, e)

		if err != nil {
			return nil, err
		}
		pairs = append(pairs, sub...)
	}
	return pairs, nil
}

func (p Params) encodeToPairs(parent string) ([]pair, error) {
	pairs := make([]pair, 0, len(p))

	for k, v := range p {
		if parent != "" {
			k = parent + "[" + k + "]"
		}

		if v == nil {
			continue
		}

		sub, err := encodeValue(k, reflect.ValueOf(v))

		if err != nil {
			return nil, err
		}
		pairs = append(pairs, sub...)
	}
	return pairs, nil
}

// Encode encodes the current Params into an x-www-form-urlencoded string and
// returns it. Key order is deterministic so retries under the same
// idempotency key produce byte-identical bodies.
func (p Params) Encode() (string, error) {
	pairs, err := p.encodeToPairs("")

	if err != nil {
		return "", err
	}
	return joinPairs(pairs), nil
}

// Reader returns an io.Reader for the x-www-form-urlencoded string of the
// current Params.
func (p Params) Reader() (io.Reader, error) {
	s, err := p.Encode()

	if err != nil {
		return nil, err
	}
	return strings.NewReader(s), nil
}

// EncodeParams renders a typed parameter struct into the flat bracketed
// key/value form Stripe accepts, validating it first. The same rendering is
// used for request query strings and for form bodies.
func EncodeParams(params interface{}) (string, error) {
	if params == nil {
		return "", nil
	}

	v := reflect.ValueOf(params)

	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}

	if p, ok := v.Interface().(Params); ok {
		return p.Encode()
	}

	if v.Kind() != reflect.Struct {
		return "", &ParamError{Param: v.Type().String(), Msg: "parameters must be a struct or Params"}
	}

	if err := validate.Struct(v.Interface()); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return "", &ParamError{Param: verrs[0].Field(), Msg: "failed " + verrs[0].Tag() + " validation"}
		}
		return "", err
	}

	pairs, err := encodeStruct("", v)

	if err != nil {
		return "", err
	}
	return joinPairs(pairs), nil
}

func joinPairs(pairs []pair) string {
	encoded := make([]string, 0, len(pairs))

	for _, p := range pairs {
		encoded = append(encoded, p.encode())
	}

	sort.Strings(encoded)
	return strings.Join(encoded, "&")
}
