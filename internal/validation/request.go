package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// ErrInvalidBody is returned by ParseBody when the payload is not a JSON object.
var ErrInvalidBody = errors.New("request body must be a JSON object")

// Request is a read-only view over the parts of an HTTP request that rules inspect.
type Request struct {
	params map[string]string
	body   map[string]any
}

// NewRequest builds a request view. Nil maps are treated as empty.
func NewRequest(params map[string]string, body map[string]any) *Request {
	if params == nil {
		params = map[string]string{}
	}
	if body == nil {
		body = map[string]any{}
	}
	return &Request{params: params, body: body}
}

// ParseBody decodes a JSON object body. An empty payload or a JSON null
// yields an empty body. Numbers are kept as json.Number.
func ParseBody(raw []byte) (map[string]any, error) {
	body := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidBody)
	}

	switch v := decoded.(type) {
	case nil:
		return body, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidBody, decoded)
	}
}

// Lookup returns the raw value of field at loc and whether it was supplied.
func (r *Request) Lookup(loc Location, field string) (any, bool) {
	switch loc {
	case LocationPath:
		v, ok := r.params[field]
		return v, ok
	case LocationBody:
		v, ok := r.body[field]
		return v, ok
	}
	return nil, false
}

// PathInt returns the path parameter name as an integer. Callers must have
// run an IntegerParam rule for name first. A value outside the int64 range,
// like any other parse error, yields 0.
func (r *Request) PathInt(name string) int64 {
	id, err := strconv.ParseInt(r.params[name], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// String returns body field as text.
func (r *Request) String(field string) string {
	s, _ := stringify(r.body[field])
	return s
}

// Float returns body field as a number, 0 when it is not numeric.
func (r *Request) Float(field string) float64 {
	n, _ := number(r.body[field])
	return n
}

// Bool returns body field as a boolean, false when it is not one.
func (r *Request) Bool(field string) bool {
	s, _ := stringify(r.body[field])
	return cast.ToBool(s)
}

// stringify renders scalar JSON values the way they would appear in a query
// string. The second result is false for objects and arrays.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// number parses v as a float64 without ever failing hard.
func number(v any) (float64, bool) {
	s, ok := stringify(v)
	if !ok || s == "" {
		return 0, false
	}
	if err := validate.Var(s, "numeric"); err != nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, false
	}
	return f, true
}
