package js

import (
	"math"

	"github.com/dop251/goja"
)

// domExceptionCode returns the legacy exception code for a DOMException name.
func domExceptionCode(name string) int {
	codes := map[string]int{
		"IndexSizeError":             1,
		"HierarchyRequestError":      3,
		"WrongDocumentError":         4,
		"InvalidCharacterError":      5,
		"NoModificationAllowedError": 7,
		"NotFoundError":              8,
		"NotSupportedError":          9,
		"InUseAttributeError":        10,
		"InvalidStateError":          11,
		"SyntaxError":                12,
		"InvalidModificationError":   13,
		"NamespaceError":             14,
		"InvalidAccessError":         15,
		"TypeMismatchError":          17,
		"SecurityError":              18,
		"NetworkError":               19,
		"AbortError":                 20,
		"URLMismatchError":           21,
		"QuotaExceededError":         22,
		"TimeoutError":               23,
		"InvalidNodeTypeError":       24,
		"DataCloneError":             25,
	}
	if code, ok := codes[name]; ok {
		return code
	}
	return 0
}

// interfaceParents lists the host's DOM interfaces with their parent
// interface, parents before children.
var interfaceParents = [][2]string{
	{"EventTarget", ""},
	{"Node", "EventTarget"},
	{"Element", "Node"},
	{"HTMLElement", "Element"},
	{"HTMLHtmlElement", "HTMLElement"},
	{"HTMLHeadElement", "HTMLElement"},
	{"HTMLBodyElement", "HTMLElement"},
	{"HTMLDivElement", "HTMLElement"},
	{"HTMLSpanElement", "HTMLElement"},
	{"HTMLParagraphElement", "HTMLElement"},
	{"HTMLButtonElement", "HTMLElement"},
	{"HTMLScriptElement", "HTMLElement"},
	{"HTMLTextAreaElement", "HTMLElement"},
	{"HTMLInputElement", "HTMLElement"},
	{"HTMLUnknownElement", "HTMLElement"},
	{"Document", "Node"},
}

// elementInterfaces maps local names to the interface of elements created
// with them. Names not listed become HTMLUnknownElement, or HTMLElement when
// they are valid custom element names.
var elementInterfaces = map[string]string{
	"html":     "HTMLHtmlElement",
	"head":     "HTMLHeadElement",
	"body":     "HTMLBodyElement",
	"div":      "HTMLDivElement",
	"span":     "HTMLSpanElement",
	"p":        "HTMLParagraphElement",
	"button":   "HTMLButtonElement",
	"script":   "HTMLScriptElement",
	"textarea": "HTMLTextAreaElement",
	"input":    "HTMLInputElement",
}

// Host installs a minimal document into a Runtime: the DOM interface
// constructors and prototypes, DOMException, and the member behaviour that
// typed wrappers call into.
type Host struct {
	rt     *Runtime
	protos map[string]*goja.Object
	nodes  map[*goja.Object]*hostNode

	doc    *hostNode
	html   *hostNode
	head   *hostNode
	body   *hostNode
	active *hostNode

	domExceptionCtor *goja.Object
}

// NewHost installs the DOM into rt and binds a fresh document to the
// global "document".
func NewHost(rt *Runtime) *Host {
	h := &Host{
		rt:     rt,
		protos: make(map[string]*goja.Object),
		nodes:  make(map[*goja.Object]*hostNode),
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	h.setupPrototypes()
	h.bindNodeMembers()
	h.bindElementMembers()
	h.bindHTMLElementMembers()
	h.bindTextControlMembers()
	h.bindDocumentMembers()
	h.resetDocument()

	return h
}

// Runtime returns the runtime the host is installed in.
func (h *Host) Runtime() *Runtime {
	return h.rt
}

// Document returns the JavaScript document object.
func (h *Host) Document() *goja.Object {
	h.rt.mu.Lock()
	defer h.rt.mu.Unlock()
	return h.doc.obj
}

// setupPrototypes creates the prototype chain for the DOM interfaces so that
// instanceof and constructor.name report the interface an object was
// created as.
func (h *Host) setupPrototypes() {
	vm := h.rt.vm

	for _, ip := range interfaceParents {
		var parent *goja.Object
		if ip[1] != "" {
			parent = h.protos[ip[1]]
		}
		h.defineInterface(ip[0], parent)
	}

	// DOMException extends Error prototype
	domExceptionProto := vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	domExceptionProto.SetPrototype(errorProto)

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message := ""
		name := "Error"
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 && !goja.IsUndefined(call.Arguments[1]) {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", domExceptionCode(name))
		return exc
	}).ToObject(vm)
	ctor.DefineDataProperty("name", vm.ToValue("DOMException"), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	ctor.Set("prototype", domExceptionProto)
	domExceptionProto.DefineDataProperty("constructor", ctor, goja.FLAG_TRUE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	ctor.Set("INDEX_SIZE_ERR", 1)
	ctor.Set("HIERARCHY_REQUEST_ERR", 3)
	ctor.Set("INVALID_CHARACTER_ERR", 5)
	ctor.Set("NOT_FOUND_ERR", 8)
	ctor.Set("INVALID_STATE_ERR", 11)
	ctor.Set("SYNTAX_ERR", 12)

	h.domExceptionCtor = ctor
	vm.Set("DOMException", ctor)
}

// defineInterface creates a constructor/prototype pair and publishes the
// constructor as a global. Only EventTarget is constructible from script.
func (h *Host) defineInterface(name string, parent *goja.Object) *goja.Object {
	vm := h.rt.vm

	proto := vm.NewObject()
	if parent != nil {
		proto.SetPrototype(parent)
	}

	constructible := name == "EventTarget"
	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		if !constructible {
			panic(vm.NewTypeError("Illegal constructor"))
		}
		return call.This
	}).ToObject(vm)
	ctor.DefineDataProperty("name", vm.ToValue(name), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	ctor.Set("prototype", proto)
	proto.DefineDataProperty("constructor", ctor, goja.FLAG_TRUE, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set(name, ctor)
	h.protos[name] = proto
	return proto
}

// newDOMException creates a DOMException object using the global constructor.
func (h *Host) newDOMException(name, message string) *goja.Object {
	vm := h.rt.vm

	ctor, ok := goja.AssertConstructor(h.domExceptionCtor)
	if ok {
		exc, err := ctor(nil, vm.ToValue(message), vm.ToValue(name))
		if err == nil {
			return exc
		}
	}

	exc := vm.NewObject()
	exc.Set("name", name)
	exc.Set("message", message)
	exc.Set("code", domExceptionCode(name))
	return exc
}

// throwDOMException throws a DOMException from inside a native member.
func (h *Host) throwDOMException(name, message string) {
	panic(h.rt.vm.ToValue(h.newDOMException(name, message)))
}

// accessor defines a prototype accessor whose receiver must be a host node.
// A nil set makes the property read-only.
func (h *Host) accessor(proto *goja.Object, name string, get func(n *hostNode) goja.Value, set func(n *hostNode, v goja.Value)) {
	vm := h.rt.vm

	getter := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return get(h.nodeOf(call.This))
	})
	var setter goja.Value
	if set != nil {
		setter = vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n := h.nodeOf(call.This)
			set(n, call.Argument(0))
			return goja.Undefined()
		})
	}
	proto.DefineAccessorProperty(name, getter, setter, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

// method defines a prototype method whose receiver must be a host node.
func (h *Host) method(proto *goja.Object, name string, fn func(n *hostNode, call goja.FunctionCall) goja.Value) {
	vm := h.rt.vm
	proto.DefineDataProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return fn(h.nodeOf(call.This), call)
	}), goja.FLAG_TRUE, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// nodeOf resolves the host node behind a receiver, throwing TypeError for
// foreign receivers.
func (h *Host) nodeOf(v goja.Value) *hostNode {
	if obj, ok := v.(*goja.Object); ok {
		if n, ok := h.nodes[obj]; ok {
			return n
		}
	}
	panic(h.rt.vm.NewTypeError("Illegal invocation"))
}

// nodeArg resolves a node argument, throwing TypeError for non-nodes.
func (h *Host) nodeArg(call goja.FunctionCall, i int, member string) *hostNode {
	if obj, ok := call.Argument(i).(*goja.Object); ok {
		if n, ok := h.nodes[obj]; ok {
			return n
		}
	}
	panic(h.rt.vm.NewTypeError("Failed to execute '%s': parameter %d is not of type 'Node'", member, i+1))
}

// toUint32 converts a JavaScript value to an unsigned 32-bit integer per Web IDL.
func toUint32(v goja.Value) uint32 {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	num := v.ToFloat()
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0
	}
	n := math.Mod(math.Trunc(num), 1<<32)
	if n < 0 {
		n += 1 << 32
	}
	return uint32(n)
}
