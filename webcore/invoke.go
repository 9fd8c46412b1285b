package webcore

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// resolve returns the bridge and engine object behind h.
func resolve(h *Handle) (*Bridge, *goja.Object, error) {
	obj, err := h.object()
	if err != nil {
		return nil, nil, err
	}
	return h.c.br, obj, nil
}

// Get reads property name of the object behind h.
func (b *Bridge) Get(h *Handle, name string) (Value, error) {
	br, obj, err := resolve(h)
	if err != nil {
		return Value{}, fmt.Errorf("get %s: %w", name, err)
	}
	br.log.Debug("get", zap.String("member", name), zap.Uint64("ref", uint64(h.ID())))

	gv, err := br.rt.GetProperty(obj, name)
	if err != nil {
		return Value{}, br.foreignError("get "+name, err)
	}
	v, err := br.fromEngine(gv)
	if err != nil {
		return Value{}, fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}

// Set assigns property name of the object behind h. Assigning a read-only
// property raises a TypeError.
func (b *Bridge) Set(h *Handle, name string, v Value) error {
	br, obj, err := resolve(h)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	br.log.Debug("set", zap.String("member", name), zap.Uint64("ref", uint64(h.ID())), zap.Stringer("value", v))

	gv, err := br.toEngine(v)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	if err := br.rt.SetProperty(obj, name, gv); err != nil {
		return br.foreignError("set "+name, err)
	}
	return nil
}

// Call invokes method name of the object behind h and returns its result.
func (b *Bridge) Call(h *Handle, name string, args ...Value) (Value, error) {
	br, gv, err := invoke(h, name, args)
	if err != nil {
		return Value{}, err
	}
	v, err := br.fromEngine(gv)
	if err != nil {
		return Value{}, fmt.Errorf("call %s: result: %w", name, err)
	}
	return v, nil
}

// Exec invokes method name and discards the result without converting it.
// Exceptions are returned as from Call.
func (b *Bridge) Exec(h *Handle, name string, args ...Value) error {
	_, _, err := invoke(h, name, args)
	return err
}

func invoke(h *Handle, name string, args []Value) (*Bridge, goja.Value, error) {
	br, obj, err := resolve(h)
	if err != nil {
		return nil, nil, fmt.Errorf("call %s: %w", name, err)
	}
	br.log.Debug("call", zap.String("member", name), zap.Uint64("ref", uint64(h.ID())), zap.Int("args", len(args)))

	gargs := make([]goja.Value, len(args))
	for i, a := range args {
		if gargs[i], err = br.toEngine(a); err != nil {
			return nil, nil, fmt.Errorf("call %s: argument %d: %w", name, i, err)
		}
	}
	gv, err := br.rt.Invoke(obj, name, gargs)
	if err != nil {
		return nil, nil, br.foreignError("call "+name, err)
	}
	return br, gv, nil
}
