package js

import (
	"fmt"

	"github.com/dop251/goja"
)

// maxPrototypeDepth bounds prototype chain walks.
const maxPrototypeDepth = 256

// PanicError reports a Go panic raised while the engine serviced a primitive.
// JavaScript exceptions are returned as *goja.Exception instead.
type PanicError struct {
	Op    string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("js: panic during %s: %v", e.Op, e.Value)
}

// guard runs fn inside the engine, returning a thrown JavaScript value as a
// *goja.Exception and any other panic as a *PanicError. Must be called with
// r.mu held.
func (r *Runtime) guard(op string, fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Op: op, Value: p}
		}
	}()
	if ex := r.vm.Try(fn); ex != nil {
		return ex
	}
	return nil
}

// GetProperty reads obj[name]. A missing property reads as undefined.
func (r *Runtime) GetProperty(obj *goja.Object, name string) (goja.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var v goja.Value
	err := r.guard("get "+name, func() {
		v = obj.Get(name)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = goja.Undefined()
	}
	return v, nil
}

// SetProperty assigns obj[name] = v, with strict-mode semantics: assigning a
// read-only property throws.
func (r *Runtime) SetProperty(obj *goja.Object, name string, v goja.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var setErr error
	err := r.guard("set "+name, func() {
		setErr = obj.Set(name, v)
	})
	if err != nil {
		return err
	}
	return setErr
}

// Invoke calls obj[name](args...) with obj as the receiver.
func (r *Runtime) Invoke(obj *goja.Object, name string, args []goja.Value) (goja.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		res     goja.Value
		callErr error
	)
	err := r.guard("call "+name, func() {
		fn, ok := goja.AssertFunction(obj.Get(name))
		if !ok {
			panic(r.vm.NewTypeError("%s is not a function", name))
		}
		res, callErr = fn(obj, args...)
	})
	if err != nil {
		return nil, err
	}
	if callErr != nil {
		return nil, callErr
	}
	if res == nil {
		res = goja.Undefined()
	}
	return res, nil
}

// Global reads a property of the global object.
func (r *Runtime) Global(name string) (goja.Value, error) {
	return r.GetProperty(r.vm.GlobalObject(), name)
}

// ConstructorName returns the name of the most-derived constructor of obj,
// taken from its prototype's constructor property. It is empty for objects
// without a prototype or with an anonymous constructor.
func (r *Runtime) ConstructorName(obj *goja.Object) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var name string
	err := r.guard("constructor name", func() {
		if proto := obj.Prototype(); proto != nil {
			name = constructorOf(proto)
		}
	})
	return name, err
}

// PrototypeChain returns the constructor names along obj's prototype chain,
// most-derived first. Adjacent prototypes sharing an inherited constructor
// are reported once.
func (r *Runtime) PrototypeChain(obj *goja.Object) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	err := r.guard("prototype chain", func() {
		depth := 0
		for p := obj.Prototype(); p != nil && depth < maxPrototypeDepth; p = p.Prototype() {
			depth++
			name := constructorOf(p)
			if name == "" || (len(names) > 0 && names[len(names)-1] == name) {
				continue
			}
			names = append(names, name)
		}
	})
	return names, err
}

func constructorOf(proto *goja.Object) string {
	ctor, ok := proto.Get("constructor").(*goja.Object)
	if !ok {
		return ""
	}
	if n := ctor.Get("name"); n != nil && !goja.IsUndefined(n) && !goja.IsNull(n) {
		return n.String()
	}
	return ""
}

// IsArray reports whether obj is an Array exotic object.
func (r *Runtime) IsArray(obj *goja.Object) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return obj.ClassName() == "Array"
}

// IsError reports whether obj is an Error or inherits from Error.prototype.
func (r *Runtime) IsError(obj *goja.Object) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if obj.ClassName() == "Error" {
		return true
	}
	errorCtor, ok := r.vm.Get("Error").(*goja.Object)
	if !ok {
		return false
	}
	errorProto, ok := errorCtor.Get("prototype").(*goja.Object)
	if !ok {
		return false
	}
	depth := 0
	for p := obj.Prototype(); p != nil && depth < maxPrototypeDepth; p = p.Prototype() {
		depth++
		if p.SameAs(errorProto) {
			return true
		}
	}
	return false
}

// Length returns ToLength(obj.length) for array-like objects.
func (r *Runtime) Length(obj *goja.Object) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	err := r.guard("length", func() {
		if v := obj.Get("length"); v != nil {
			n = v.ToInteger()
		}
	})
	if n < 0 {
		n = 0
	}
	return int(n), err
}

// Index reads obj[i].
func (r *Runtime) Index(obj *goja.Object, i int) (goja.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var v goja.Value
	err := r.guard("index", func() {
		v = obj.Get(fmt.Sprint(i))
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = goja.Undefined()
	}
	return v, nil
}

// CodeUnits returns the UTF-16 code units of a string value, including any
// unpaired surrogates.
func (r *Runtime) CodeUnits(s goja.Value) ([]uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var units []uint16
	err := r.guard("code units", func() {
		res, err := r.codeUnits(goja.Undefined(), s)
		if err != nil {
			panic(err)
		}
		if err := r.vm.ExportTo(res, &units); err != nil {
			panic(err)
		}
	})
	return units, err
}

// NewArray creates an array holding items.
func (r *Runtime) NewArray(items []goja.Value) *goja.Object {
	r.mu.Lock()
	defer r.mu.Unlock()

	args := make([]interface{}, len(items))
	for i, it := range items {
		args[i] = it
	}
	return r.vm.NewArray(args...)
}

// ToValue converts a Go primitive into an engine value.
func (r *Runtime) ToValue(x interface{}) goja.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vm.ToValue(x)
}
