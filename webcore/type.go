package webcore

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Type describes a typed wrapper: the lattice interface it stands for and
// how to build it around a Reference.
type Type[T ReferenceType] struct {
	iface *Interface
	wrap  func(Reference) T
}

// DefineType declares the wrapper type for iface.
func DefineType[T ReferenceType](iface *Interface, wrap func(Reference) T) *Type[T] {
	if iface == nil || wrap == nil {
		panic("webcore: DefineType needs an interface and a constructor")
	}
	return &Type[T]{iface: iface, wrap: wrap}
}

// Name returns the identity the wrapper is constructed as.
func (t *Type[T]) Name() string { return t.iface.name }

// Interface returns the lattice node of the wrapper.
func (t *Type[T]) Interface() *Interface { return t.iface }

// Downcast narrows an object value to T and takes a claim on it. The value's
// most-derived constructor name is matched against T according to the
// bridge policy; a mismatch fails with TypeMismatch and takes no claim.
func (t *Type[T]) Downcast(v Value) (T, error) {
	var zero T
	obj, err := t.target(v)
	if err != nil {
		return zero, err
	}
	return t.adopt(v.br, obj)
}

// Cast narrows an existing wrapper to T. On success the result holds a new
// claim; r is left untouched and must still be dropped by its owner.
func (t *Type[T]) Cast(r ReferenceType) (T, error) {
	var zero T
	h := r.Handle()
	obj, err := h.object()
	if err != nil {
		return zero, fmt.Errorf("cast to %s: %w", t.Name(), err)
	}
	return t.adopt(h.c.br, obj)
}

// Retain returns a copy of r holding its own claim. No check is made: r is
// already a T.
func (t *Type[T]) Retain(r T) (T, error) {
	var zero T
	h, err := r.Handle().Retain()
	if err != nil {
		return zero, err
	}
	return t.wrap(NewReference(h)), nil
}

// Decoder returns Downcast as a Decoder, for use with Nullable and Slice.
func (t *Type[T]) Decoder() Decoder[T] {
	return t.Downcast
}

// Assume builds T around an object value without consulting the policy. It
// is for member results whose interface the host fixes by contract, such as
// the element returned by getElementById. It takes one claim.
func (t *Type[T]) Assume(v Value) (T, error) {
	var zero T
	obj, err := t.target(v)
	if err != nil {
		return zero, err
	}
	id := v.br.rt.Acquire(obj)
	return t.wrap(NewReference(newHandle(v.br, id))), nil
}

// AssumeDecoder returns Assume as a Decoder.
func (t *Type[T]) AssumeDecoder() Decoder[T] {
	return t.Assume
}

// target resolves the engine object behind an object or error value.
func (t *Type[T]) target(v Value) (*goja.Object, error) {
	if v.kind != KindObject && v.kind != KindError {
		return nil, mismatch(t.Name(), v)
	}
	obj, err := v.object()
	if err != nil {
		return nil, err
	}
	if obj == nil || v.br == nil {
		return nil, mismatch(t.Name(), v)
	}
	return obj, nil
}

func (t *Type[T]) adopt(b *Bridge, obj *goja.Object) (T, error) {
	var zero T
	name, err := b.rt.ConstructorName(obj)
	if err != nil {
		return zero, b.foreignError("constructor name", err)
	}
	ok, err := t.matches(b, obj, name)
	if err != nil {
		return zero, err
	}
	if !ok {
		b.log.Debug("downcast rejected",
			zap.String("want", t.Name()),
			zap.String("got", name),
			zap.Stringer("policy", b.policy))
		got := name
		if got == "" {
			got = "anonymous object"
		}
		return zero, &ConversionError{
			Kind:   TypeMismatch,
			Want:   t.Name(),
			Got:    got,
			Detail: b.policy.String() + " match",
		}
	}

	id := b.rt.Acquire(obj)
	return t.wrap(NewReference(newHandle(b, id))), nil
}

func (t *Type[T]) matches(b *Bridge, obj *goja.Object, name string) (bool, error) {
	switch b.policy {
	case MatchStrict:
		return name == t.Name(), nil
	case MatchPrototype:
		chain, err := b.rt.PrototypeChain(obj)
		if err != nil {
			return false, b.foreignError("prototype chain", err)
		}
		for _, n := range chain {
			if n == t.Name() {
				return true, nil
			}
		}
		return false, nil
	default:
		if name == t.Name() {
			return true, nil
		}
		got, ok := t.iface.lattice.Lookup(name)
		return ok && got.Implements(t.iface), nil
	}
}
