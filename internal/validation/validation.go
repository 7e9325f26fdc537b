// Package validation evaluates ordered, per-route field rules against a
// request and collects every failure instead of stopping at the first one.
package validation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Location tells where a validated value came from.
type Location string

const (
	LocationBody Location = "body"
	LocationPath Location = "path"
)

// Failure codes.
const (
	CodeEmpty        = "empty"
	CodeInvalidID    = "invalid-id"
	CodeInvalidType  = "invalid-type"
	CodeInvalidRange = "invalid-range"
	CodeInvalidBody  = "invalid-body"
	CodeTooLong      = "too-long"
)

// Failure describes one rule that did not hold for one field.
type Failure struct {
	Field    string   `json:"field"`
	Code     string   `json:"code"`
	Message  string   `json:"msg"`
	Location Location `json:"location"`
	Value    any      `json:"value,omitempty"`
}

// Rule checks a single field and reports a failure when it does not hold.
type Rule func(r *Request) (Failure, bool)

var validate = validator.New()

// Run evaluates every rule in declaration order and returns all failures.
// The result is never nil.
func Run(r *Request, rules []Rule) []Failure {
	failures := []Failure{}
	for _, rule := range rules {
		if f, failed := rule(r); failed {
			failures = append(failures, f)
		}
	}
	return failures
}

func failure(loc Location, field, code, msg string, value any) Failure {
	return Failure{Field: field, Code: code, Message: msg, Location: loc, Value: value}
}

// Required fails with CodeEmpty when field is absent, null or an empty string.
func Required(loc Location, field, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(loc, field)
		s, scalar := stringify(v)
		if !scalar {
			return Failure{}, false
		}
		if err := validate.Var(s, "required"); err != nil {
			return failure(loc, field, CodeEmpty, msg, v), true
		}
		return Failure{}, false
	}
}

// Text fails with CodeInvalidType when body field is an object or an array.
// Absent and null values are left to Required.
func Text(field, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationBody, field)
		if _, scalar := stringify(v); !scalar {
			return failure(LocationBody, field, CodeInvalidType, msg, v), true
		}
		return Failure{}, false
	}
}

// MaxLength fails with CodeTooLong when body field renders to more than max
// characters.
func MaxLength(field string, max int, msg string) Rule {
	tag := fmt.Sprintf("max=%d", max)
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationBody, field)
		s, scalar := stringify(v)
		if scalar && validate.Var(s, tag) != nil {
			return failure(LocationBody, field, CodeTooLong, msg, v), true
		}
		return Failure{}, false
	}
}

// IntegerParam fails with CodeInvalidID when path parameter name is not a
// base-10 integer. Integers too large for int64 are still integers.
func IntegerParam(name, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationPath, name)
		s, _ := v.(string)
		if _, err := strconv.ParseInt(s, 10, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return failure(LocationPath, name, CodeInvalidID, msg, v), true
		}
		return Failure{}, false
	}
}

// Numeric fails with CodeInvalidType when body field cannot be read as a number.
func Numeric(field, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationBody, field)
		if _, ok := number(v); !ok {
			return failure(LocationBody, field, CodeInvalidType, msg, v), true
		}
		return Failure{}, false
	}
}

// Positive fails with CodeInvalidRange unless body field is a number greater
// than zero. A missing or non-numeric value counts as not positive.
func Positive(field, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationBody, field)
		if n, ok := number(v); !ok || n <= 0 {
			return failure(LocationBody, field, CodeInvalidRange, msg, v), true
		}
		return Failure{}, false
	}
}

// Boolean fails with CodeInvalidType unless body field is true or false.
func Boolean(field, msg string) Rule {
	return func(r *Request) (Failure, bool) {
		v, _ := r.Lookup(LocationBody, field)
		s, scalar := stringify(v)
		if !scalar || validate.Var(s, "required,oneof=true false") != nil {
			return failure(LocationBody, field, CodeInvalidType, msg, v), true
		}
		return Failure{}, false
	}
}
