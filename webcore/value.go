package webcore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/exp/constraints"
)

// Kind is the variant of a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindError:
		return "error"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the dynamically typed representation of a JavaScript value on the
// Go side of the bridge. The zero Value is undefined.
//
// Object, Array and Error values produced by the bridge refer to an engine
// object without holding a claim on it; a claim is taken only when the value
// is downcast into a typed wrapper. Values built from a Go-side reference
// (Ref) resolve their object when they are passed to an invocation.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	// illFormed marks strings that carried unpaired UTF-16 surrogates; s
	// holds them replaced by U+FFFD and raw holds the engine string.
	illFormed bool
	raw       goja.Value
	elems     []Value
	obj       *goja.Object
	ref       *Handle
	br        *Bridge
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value. s must be valid UTF-8 to be passed to the
// engine; invalid bytes fail the invocation with LossyConversion.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a number value. JavaScript numbers are IEEE 754 doubles:
// integers with magnitude above MaxSafeInteger are rounded to the nearest
// representable double.
func Number[T constraints.Integer | constraints.Float](n T) Value {
	return Value{kind: KindNumber, n: float64(n)}
}

// Ref returns an object value referring to the object behind r.
func Ref(r ReferenceType) Value {
	h := r.Handle()
	if h == nil {
		return Null()
	}
	return Value{kind: KindObject, ref: h, br: h.c.br}
}

// Array returns an array value holding elems.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// Strings returns an array of string values.
func Strings(ss []string) Value {
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = String(s)
	}
	return Array(elems...)
}

// ValueOf converts common Go values into a Value. It panics for types
// without a JavaScript counterpart.
func ValueOf(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return Number(x)
	case int8:
		return Number(x)
	case int16:
		return Number(x)
	case int32:
		return Number(x)
	case int64:
		return Number(x)
	case uint:
		return Number(x)
	case uint8:
		return Number(x)
	case uint16:
		return Number(x)
	case uint32:
		return Number(x)
	case uint64:
		return Number(x)
	case float32:
		return Number(x)
	case float64:
		return Number(x)
	case []string:
		return Strings(x)
	case []Value:
		return Array(x...)
	case ReferenceType:
		return Ref(x)
	default:
		panic(fmt.Sprintf("webcore: no JavaScript representation for %T", x))
	}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool {
	return v.kind == KindUndefined || v.kind == KindNull
}

// String formats v for diagnostics. Use ToString to convert a string value.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindArray:
		if v.obj != nil {
			return "[array]"
		}
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject, KindError:
		if v.ref != nil {
			return fmt.Sprintf("[%s #%d]", v.kind, v.ref.ID())
		}
		return "[" + v.kind.String() + "]"
	default:
		return v.kind.String()
	}
}

// object resolves the engine object behind an Object, Array or Error value.
func (v Value) object() (*goja.Object, error) {
	if v.obj != nil {
		return v.obj, nil
	}
	if v.ref != nil {
		return v.ref.object()
	}
	return nil, nil
}

// Elements returns the elements of an array value.
func (v Value) Elements() ([]Value, error) {
	if v.kind != KindArray {
		return nil, mismatch("array", v)
	}
	if v.obj == nil {
		return v.elems, nil
	}
	rt := v.br.rt
	n, err := rt.Length(v.obj)
	if err != nil {
		return nil, v.br.foreignError("length", err)
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		gv, err := rt.Index(v.obj, i)
		if err != nil {
			return nil, v.br.foreignError("index", err)
		}
		if out[i], err = v.br.fromEngine(gv); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}
