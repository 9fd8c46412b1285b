// Package webcore is the value bridge between Go and the JavaScript engine
// hosting DOM objects: reference-counted handles, the dynamic Value type and
// its conversions, the interface lattice used for downcasts, and the
// invocation channel.
//
// All calls are synchronous and ordered; the bridge starts no goroutines of
// its own. A Handle is affine to the runtime that issued it.
package webcore

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/chrisuehlinger/webref/js"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Policy decides which reported constructor names satisfy a downcast.
type Policy int

const (
	// MatchLineage accepts the target interface itself and any interface
	// the lattice knows to descend from it. Names the lattice does not know
	// are rejected.
	MatchLineage Policy = iota
	// MatchStrict accepts only the target interface itself.
	MatchStrict
	// MatchPrototype accepts objects whose prototype chain, as reported by
	// the engine, contains a constructor named like the target. Subclasses
	// unknown to the lattice are accepted.
	MatchPrototype
)

func (p Policy) String() string {
	switch p {
	case MatchLineage:
		return "lineage"
	case MatchStrict:
		return "strict"
	case MatchPrototype:
		return "prototype"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses the String form of a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lineage":
		return MatchLineage, nil
	case "strict":
		return MatchStrict, nil
	case "prototype":
		return MatchPrototype, nil
	}
	return 0, fmt.Errorf("webcore: unknown downcast policy %q", s)
}

// Bridge connects Go to one js.Runtime.
type Bridge struct {
	rt     *js.Runtime
	log    *zap.Logger
	policy Policy
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger. Invocations are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithPolicy sets the downcast policy. The default is MatchLineage.
func WithPolicy(p Policy) Option {
	return func(b *Bridge) {
		b.policy = p
	}
}

// New creates a bridge to rt.
func New(rt *js.Runtime, opts ...Option) *Bridge {
	b := &Bridge{
		rt:     rt,
		log:    zap.NewNop(),
		policy: MatchLineage,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("webcore")
	return b
}

// Runtime returns the runtime the bridge talks to.
func (b *Bridge) Runtime() *js.Runtime { return b.rt }

// Policy returns the downcast policy.
func (b *Bridge) Policy() Policy { return b.policy }

// Global reads a property of the engine's global object.
func (b *Bridge) Global(name string) (Value, error) {
	gv, err := b.rt.Global(name)
	if err != nil {
		return Value{}, b.foreignError("get global "+name, err)
	}
	return b.fromEngine(gv)
}

var (
	reflectBool    = reflect.TypeOf(false)
	reflectString  = reflect.TypeOf("")
	reflectInt64   = reflect.TypeOf(int64(0))
	reflectFloat64 = reflect.TypeOf(float64(0))
)

// fromEngine converts an engine value into a Value. Symbols and BigInts have
// no Value variant and fail with TypeMismatch.
func (b *Bridge) fromEngine(gv goja.Value) (Value, error) {
	if gv == nil || goja.IsUndefined(gv) {
		return Undefined(), nil
	}
	if goja.IsNull(gv) {
		return Null(), nil
	}

	if _, ok := gv.(*goja.Symbol); ok {
		return Value{}, &ConversionError{
			Kind:   TypeMismatch,
			Want:   "value",
			Got:    "symbol",
			Detail: "no bridge representation",
		}
	}

	if obj, ok := gv.(*goja.Object); ok {
		switch {
		case b.rt.IsArray(obj):
			return Value{kind: KindArray, obj: obj, br: b}, nil
		case b.rt.IsError(obj):
			return Value{kind: KindError, obj: obj, br: b}, nil
		default:
			return Value{kind: KindObject, obj: obj, br: b}, nil
		}
	}

	switch gv.ExportType() {
	case reflectBool:
		return Bool(gv.ToBoolean()), nil
	case reflectInt64, reflectFloat64:
		return Value{kind: KindNumber, n: gv.ToFloat()}, nil
	case reflectString:
		return b.stringFromEngine(gv)
	}
	return Value{}, &ConversionError{
		Kind:   TypeMismatch,
		Want:   "value",
		Got:    fmt.Sprintf("%v", gv.ExportType()),
		Detail: "no bridge representation",
	}
}

// stringFromEngine converts a string, noting unpaired surrogates. Decoding
// replaces those with U+FFFD, so only strings containing U+FFFD need their
// code units examined. An ill-formed string keeps the engine value it came
// from, so passing it back sends the original code units.
func (b *Bridge) stringFromEngine(gv goja.Value) (Value, error) {
	s := gv.String()
	if !strings.ContainsRune(s, utf8.RuneError) {
		return String(s), nil
	}
	units, err := b.rt.CodeUnits(gv)
	if err != nil {
		return Value{}, b.foreignError("read string", err)
	}
	v := String(string(utf16.Decode(units)))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case utf16.IsSurrogate(rune(u)) && u < 0xdc00 && i+1 < len(units) && units[i+1] >= 0xdc00 && units[i+1] <= 0xdfff:
			i++
		case utf16.IsSurrogate(rune(u)):
			v.illFormed = true
			v.raw = gv
			return v, nil
		}
	}
	return v, nil
}

// toEngine converts a Value into an engine value. Go strings that are not
// valid UTF-8 fail with LossyConversion.
func (b *Bridge) toEngine(v Value) (goja.Value, error) {
	switch v.kind {
	case KindUndefined:
		return goja.Undefined(), nil
	case KindNull:
		return goja.Null(), nil
	case KindBool:
		return b.rt.ToValue(v.b), nil
	case KindNumber:
		return b.rt.ToValue(v.n), nil
	case KindString:
		if v.raw != nil {
			return v.raw, nil
		}
		if !utf8.ValidString(v.s) {
			return nil, &ConversionError{
				Kind:   LossyConversion,
				Want:   "string",
				Got:    "string",
				Detail: "invalid UTF-8",
			}
		}
		return b.rt.ToValue(v.s), nil
	case KindArray:
		if v.obj != nil {
			return v.obj, nil
		}
		items := make([]goja.Value, len(v.elems))
		for i, e := range v.elems {
			gv, err := b.toEngine(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = gv
		}
		return b.rt.NewArray(items), nil
	case KindObject, KindError:
		if v.ref != nil && v.ref.c.br != b {
			return nil, errors.New("webcore: reference belongs to another bridge")
		}
		obj, err := v.object()
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return goja.Null(), nil
		}
		return obj, nil
	}
	return nil, fmt.Errorf("webcore: unknown value kind %s", v.kind)
}

// foreignError converts an error returned by a runtime primitive. JavaScript
// exceptions become *ForeignError, widened to *DOMException and its named
// subtypes where the payload is a DOMException.
func (b *Bridge) foreignError(op string, err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return fmt.Errorf("webcore: %s: %w", op, err)
	}

	if ex.Value() == nil {
		return &ForeignError{Op: op, Payload: Undefined(), Message: ex.Error()}
	}
	payload, convErr := b.fromEngine(ex.Value())
	if convErr != nil {
		payload = Undefined()
	}
	fe := &ForeignError{Op: op, Payload: payload}

	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		fe.Message = ex.Value().String()
		return fe
	}
	return b.classify(fe, obj)
}

// classify fills in Name and Message from a thrown object and widens
// DOMException payloads.
func (b *Bridge) classify(fe *ForeignError, obj *goja.Object) error {
	fe.Name = b.stringProperty(obj, "name")
	fe.Message = b.stringProperty(obj, "message")

	chain, _ := b.rt.PrototypeChain(obj)
	for _, name := range chain {
		if name == "DOMException" {
			d := &DOMException{ForeignError: fe}
			if code, err := b.rt.GetProperty(obj, "code"); err == nil {
				d.Code = int(code.ToInteger())
			}
			return widenDOMException(d)
		}
	}
	return fe
}

func (b *Bridge) stringProperty(obj *goja.Object, name string) string {
	v, err := b.rt.GetProperty(obj, name)
	if err != nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
