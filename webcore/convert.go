package webcore

import (
	"fmt"
	"math"
	"strconv"
)

// MaxSafeInteger is the largest integer n such that n and n+1 are both
// exactly representable as a JavaScript number.
const MaxSafeInteger = 1<<53 - 1

// Decoder converts a Value into a Go value.
type Decoder[T any] func(Value) (T, error)

// ToBool converts a boolean value.
func ToBool(v Value) (bool, error) {
	if v.kind != KindBool {
		return false, mismatch("bool", v)
	}
	return v.b, nil
}

// ToString converts a string value. Strings carrying unpaired UTF-16
// surrogates have no exact Go representation and fail with LossyConversion;
// use ToStringLossy to accept the substitution.
func ToString(v Value) (string, error) {
	if v.kind != KindString {
		return "", mismatch("string", v)
	}
	if v.illFormed {
		return "", &ConversionError{
			Kind:   LossyConversion,
			Want:   "string",
			Got:    "string",
			Detail: "unpaired UTF-16 surrogate",
		}
	}
	return v.s, nil
}

// ToStringLossy converts a string value, replacing unpaired surrogates with
// U+FFFD.
func ToStringLossy(v Value) (string, error) {
	if v.kind != KindString {
		return "", mismatch("string", v)
	}
	return v.s, nil
}

// ToFloat64 converts a number value.
func ToFloat64(v Value) (float64, error) {
	if v.kind != KindNumber {
		return 0, mismatch("float64", v)
	}
	return v.n, nil
}

// integral checks that v is a number holding an integer within [lo, hi] and
// within the safe-integer range.
func integral(want string, v Value, lo, hi float64) (float64, error) {
	if v.kind != KindNumber {
		return 0, mismatch(want, v)
	}
	n := v.n
	got := strconv.FormatFloat(n, 'g', -1, 64)
	switch {
	case math.IsNaN(n):
		return 0, &ConversionError{Kind: LossyConversion, Want: want, Got: "NaN"}
	case math.IsInf(n, 0):
		return 0, &ConversionError{Kind: RangeOverflow, Want: want, Got: got}
	case n != math.Trunc(n):
		return 0, &ConversionError{Kind: LossyConversion, Want: want, Got: got, Detail: "not an integer"}
	case n < lo || n > hi:
		return 0, &ConversionError{Kind: RangeOverflow, Want: want, Got: got}
	case math.Abs(n) > MaxSafeInteger:
		return 0, &ConversionError{Kind: RangeOverflow, Want: want, Got: got, Detail: "beyond safe integer range"}
	}
	return n, nil
}

// ToInt32 converts a number value holding an integer in the int32 range.
func ToInt32(v Value) (int32, error) {
	n, err := integral("int32", v, math.MinInt32, math.MaxInt32)
	return int32(n), err
}

// ToUint32 converts a number value holding an integer in the uint32 range.
func ToUint32(v Value) (uint32, error) {
	n, err := integral("uint32", v, 0, math.MaxUint32)
	return uint32(n), err
}

// ToInt64 converts a number value holding a safe integer.
func ToInt64(v Value) (int64, error) {
	n, err := integral("int64", v, -MaxSafeInteger, MaxSafeInteger)
	return int64(n), err
}

// ToUint64 converts a number value holding a non-negative safe integer.
func ToUint64(v Value) (uint64, error) {
	n, err := integral("uint64", v, 0, MaxSafeInteger)
	return uint64(n), err
}

// ToInt converts a number value holding a safe integer that fits in int.
func ToInt(v Value) (int, error) {
	n, err := integral("int", v, math.Max(math.MinInt, -MaxSafeInteger), math.Min(math.MaxInt, MaxSafeInteger))
	return int(n), err
}

// ToError converts an error value, or an object thrown as an exception, into
// a Go error. DOMExceptions are widened the same way invocation errors are.
func ToError(v Value) (error, error) {
	if v.kind != KindError && v.kind != KindObject {
		return nil, mismatch("error", v)
	}
	obj, err := v.object()
	if err != nil {
		return nil, err
	}
	if obj == nil || v.br == nil {
		return nil, mismatch("error", v)
	}
	if v.kind == KindObject && !v.br.rt.IsError(obj) {
		return nil, mismatch("error", v)
	}
	fe := &ForeignError{Op: "error", Payload: v}
	return v.br.classify(fe, obj), nil
}

// Nullable converts v with dec, mapping null and undefined to nil.
func Nullable[T any](v Value, dec Decoder[T]) (*T, error) {
	if v.IsNullish() {
		return nil, nil
	}
	x, err := dec(v)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

// Slice converts an array value element by element. The first element that
// fails to convert aborts the conversion.
func Slice[T any](v Value, dec Decoder[T]) ([]T, error) {
	elems, err := v.Elements()
	if err != nil {
		return nil, err
	}
	out := make([]T, len(elems))
	for i, e := range elems {
		x, err := dec(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}
