package js

import (
	"strings"
	"unicode/utf16"

	"github.com/dop251/goja"
)

// Node type constants as exposed through nodeType.
const (
	elementNodeType  = 1
	documentNodeType = 9
)

type attribute struct {
	name  string
	value string
}

// hostNode is the engine-side state behind a document or element object.
type hostNode struct {
	obj       *goja.Object
	nodeType  int
	localName string
	attrs     []attribute
	parent    *hostNode
	children  []*hostNode
	control   *textControl
}

// textControl holds the editable value and selection of textarea and input
// elements. The value is kept as UTF-16 code units so that strings assigned
// from script survive unchanged, unpaired surrogates included. Offsets are in
// code units, as script sees them.
type textControl struct {
	value []uint16
	start int
	end   int
	dirty bool
}

func (c *textControl) setValue(v string) {
	c.setUnits(utf16.Encode([]rune(v)))
}

func (c *textControl) setUnits(units []uint16) {
	c.value = units
	c.start, c.end = len(units), len(units)
}

// codeUnits converts v to a string and returns its UTF-16 code units.
func codeUnits(v goja.Value) []uint16 {
	str, ok := v.ToString().(goja.String)
	if !ok {
		return utf16.Encode([]rune(v.String()))
	}
	units := make([]uint16, str.Length())
	for i := range units {
		units[i] = str.CharAt(i)
	}
	return units
}

func (n *hostNode) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

func (n *hostNode) setAttr(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attribute{name: name, value: value})
}

func (n *hostNode) removeAttr(name string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// isInclusiveAncestorOf reports whether n is other or one of its ancestors.
func (n *hostNode) isInclusiveAncestorOf(other *hostNode) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *hostNode) appendChild(c *hostNode) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *hostNode) removeChild(c *hostNode) bool {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// walk visits descendants of n in tree order until fn returns false.
func (n *hostNode) walk(fn func(*hostNode) bool) bool {
	for _, c := range n.children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

func (n *hostNode) inputType() string {
	t, _ := n.attr("type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}

// selectable reports whether the selection API applies to n.
func (n *hostNode) selectable() bool {
	if n.control == nil {
		return false
	}
	if n.localName == "textarea" {
		return true
	}
	switch n.inputType() {
	case "text", "search", "url", "tel", "password":
		return true
	}
	return false
}

// isValidName reports whether name matches the XML Name production, restricted
// to the ASCII subset.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}

// newElement creates an element of the interface registered for localName.
func (h *Host) newElement(localName string) *hostNode {
	vm := h.rt.vm

	iface, ok := elementInterfaces[localName]
	if !ok {
		iface = "HTMLUnknownElement"
		if strings.Contains(localName, "-") {
			iface = "HTMLElement"
		}
	}

	obj := vm.NewObject()
	obj.SetPrototype(h.protos[iface])

	n := &hostNode{obj: obj, nodeType: elementNodeType, localName: localName}
	if localName == "textarea" || localName == "input" {
		n.control = &textControl{}
	}
	h.nodes[obj] = n
	return n
}

// resetDocument replaces the document with an empty html/head/body tree.
func (h *Host) resetDocument() {
	vm := h.rt.vm

	for obj := range h.nodes {
		delete(h.nodes, obj)
	}

	obj := vm.NewObject()
	obj.SetPrototype(h.protos["Document"])
	h.doc = &hostNode{obj: obj, nodeType: documentNodeType}
	h.nodes[obj] = h.doc

	h.html = h.newElement("html")
	h.head = h.newElement("head")
	h.body = h.newElement("body")
	h.doc.appendChild(h.html)
	h.html.appendChild(h.head)
	h.html.appendChild(h.body)
	h.active = nil

	vm.Set("document", obj)
}

func (h *Host) nodeValue(n *hostNode) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return n.obj
}

// bindNodeMembers installs Node and ParentNode members.
func (h *Host) bindNodeMembers() {
	vm := h.rt.vm

	for _, name := range []string{"Node", "Document", "Element"} {
		proto := h.protos[name]
		if name == "Node" {
			h.accessor(proto, "nodeType", func(n *hostNode) goja.Value {
				return vm.ToValue(n.nodeType)
			}, nil)
			h.accessor(proto, "nodeName", func(n *hostNode) goja.Value {
				if n.nodeType == documentNodeType {
					return vm.ToValue("#document")
				}
				return vm.ToValue(strings.ToUpper(n.localName))
			}, nil)
			h.accessor(proto, "parentNode", func(n *hostNode) goja.Value {
				return h.nodeValue(n.parent)
			}, nil)
			h.method(proto, "appendChild", func(n *hostNode, call goja.FunctionCall) goja.Value {
				child := h.nodeArg(call, 0, "appendChild")
				if child.nodeType == documentNodeType || child.isInclusiveAncestorOf(n) {
					h.throwDOMException("HierarchyRequestError", "The new child element contains the parent.")
				}
				n.appendChild(child)
				return child.obj
			})
			h.method(proto, "removeChild", func(n *hostNode, call goja.FunctionCall) goja.Value {
				child := h.nodeArg(call, 0, "removeChild")
				if !n.removeChild(child) {
					h.throwDOMException("NotFoundError", "The node to be removed is not a child of this node.")
				}
				return child.obj
			})
			h.method(proto, "contains", func(n *hostNode, call goja.FunctionCall) goja.Value {
				other, ok := call.Argument(0).(*goja.Object)
				if !ok {
					return vm.ToValue(false)
				}
				o, ok := h.nodes[other]
				return vm.ToValue(ok && n.isInclusiveAncestorOf(o))
			})
			continue
		}

		// ParentNode mixin, shared by Document and Element
		h.accessor(proto, "childElementCount", func(n *hostNode) goja.Value {
			return vm.ToValue(len(n.children))
		}, nil)
		h.method(proto, "querySelector", func(n *hostNode, call goja.FunctionCall) goja.Value {
			match := h.compileSelector(call.Argument(0).String())
			var found *hostNode
			n.walk(func(c *hostNode) bool {
				if match(c) {
					found = c
					return false
				}
				return true
			})
			return h.nodeValue(found)
		})
	}
}

// compileSelector supports type selectors and id selectors.
func (h *Host) compileSelector(sel string) func(*hostNode) bool {
	sel = strings.TrimSpace(sel)
	if strings.HasPrefix(sel, "#") && isValidName(sel[1:]) {
		id := sel[1:]
		return func(n *hostNode) bool {
			v, ok := n.attr("id")
			return ok && v == id
		}
	}
	if sel == "*" {
		return func(*hostNode) bool { return true }
	}
	if isValidName(sel) && !strings.ContainsAny(sel, ".:") {
		name := strings.ToLower(sel)
		return func(n *hostNode) bool { return n.localName == name }
	}
	h.throwDOMException("SyntaxError", "'"+sel+"' is not a valid selector.")
	return nil
}

// bindElementMembers installs Element members.
func (h *Host) bindElementMembers() {
	vm := h.rt.vm
	proto := h.protos["Element"]

	h.accessor(proto, "tagName", func(n *hostNode) goja.Value {
		return vm.ToValue(strings.ToUpper(n.localName))
	}, nil)
	h.accessor(proto, "localName", func(n *hostNode) goja.Value {
		return vm.ToValue(n.localName)
	}, nil)
	h.accessor(proto, "id", func(n *hostNode) goja.Value {
		v, _ := n.attr("id")
		return vm.ToValue(v)
	}, func(n *hostNode, v goja.Value) {
		n.setAttr("id", v.String())
	})
	h.method(proto, "getAttribute", func(n *hostNode, call goja.FunctionCall) goja.Value {
		v, ok := n.attr(strings.ToLower(call.Argument(0).String()))
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})
	h.method(proto, "hasAttribute", func(n *hostNode, call goja.FunctionCall) goja.Value {
		_, ok := n.attr(strings.ToLower(call.Argument(0).String()))
		return vm.ToValue(ok)
	})
	h.method(proto, "setAttribute", func(n *hostNode, call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !isValidName(name) {
			h.throwDOMException("InvalidCharacterError", "'"+name+"' is not a valid attribute name.")
		}
		name = strings.ToLower(name)
		value := call.Argument(1).String()
		n.setAttr(name, value)
		if name == "value" && n.localName == "input" && !n.control.dirty {
			n.control.setValue(value)
		}
		return goja.Undefined()
	})
	h.method(proto, "removeAttribute", func(n *hostNode, call goja.FunctionCall) goja.Value {
		n.removeAttr(strings.ToLower(call.Argument(0).String()))
		return goja.Undefined()
	})
}

// bindHTMLElementMembers installs HTMLElement members.
func (h *Host) bindHTMLElementMembers() {
	vm := h.rt.vm
	proto := h.protos["HTMLElement"]

	h.accessor(proto, "title", func(n *hostNode) goja.Value {
		v, _ := n.attr("title")
		return vm.ToValue(v)
	}, func(n *hostNode, v goja.Value) {
		n.setAttr("title", v.String())
	})
	h.accessor(proto, "hidden", func(n *hostNode) goja.Value {
		_, ok := n.attr("hidden")
		return vm.ToValue(ok)
	}, func(n *hostNode, v goja.Value) {
		if v.ToBoolean() {
			n.setAttr("hidden", "")
		} else {
			n.removeAttr("hidden")
		}
	})
	h.method(proto, "focus", func(n *hostNode, call goja.FunctionCall) goja.Value {
		if h.doc.isInclusiveAncestorOf(n) {
			h.active = n
		}
		return goja.Undefined()
	})
	h.method(proto, "blur", func(n *hostNode, call goja.FunctionCall) goja.Value {
		if h.active == n {
			h.active = nil
		}
		return goja.Undefined()
	})
}

// bindTextControlMembers installs the value and selection members of
// HTMLTextAreaElement and HTMLInputElement.
//
// Setting a selection offset past the end of the value throws
// InvalidStateError, as does any selection access on an input whose type
// does not support selection.
func (h *Host) bindTextControlMembers() {
	vm := h.rt.vm

	for _, name := range []string{"HTMLTextAreaElement", "HTMLInputElement"} {
		proto := h.protos[name]

		h.accessor(proto, "value", func(n *hostNode) goja.Value {
			return goja.StringFromUTF16(h.controlOf(n).value)
		}, func(n *hostNode, v goja.Value) {
			c := h.controlOf(n)
			var units []uint16
			if !goja.IsNull(v) {
				units = codeUnits(v)
			}
			c.dirty = true
			c.setUnits(units)
		})
		h.accessor(proto, "textLength", func(n *hostNode) goja.Value {
			return vm.ToValue(len(h.controlOf(n).value))
		}, nil)

		h.accessor(proto, "selectionStart", func(n *hostNode) goja.Value {
			c := h.controlOf(n)
			if !n.selectable() {
				return goja.Null()
			}
			return vm.ToValue(c.start)
		}, func(n *hostNode, v goja.Value) {
			c := h.controlOf(n)
			off := h.selectionOffset(n, v)
			c.start = off
			if c.end < off {
				c.end = off
			}
		})
		h.accessor(proto, "selectionEnd", func(n *hostNode) goja.Value {
			c := h.controlOf(n)
			if !n.selectable() {
				return goja.Null()
			}
			return vm.ToValue(c.end)
		}, func(n *hostNode, v goja.Value) {
			c := h.controlOf(n)
			off := h.selectionOffset(n, v)
			c.end = off
			if c.start > off {
				c.start = off
			}
		})

		h.method(proto, "setSelectionRange", func(n *hostNode, call goja.FunctionCall) goja.Value {
			c := h.controlOf(n)
			if !n.selectable() {
				h.throwDOMException("InvalidStateError", "The input element's type does not support selection.")
			}
			start := min(int(toUint32(call.Argument(0))), len(c.value))
			end := min(int(toUint32(call.Argument(1))), len(c.value))
			if start > end {
				start = end
			}
			c.start, c.end = start, end
			return goja.Undefined()
		})
		h.method(proto, "select", func(n *hostNode, call goja.FunctionCall) goja.Value {
			c := h.controlOf(n)
			if n.selectable() {
				c.start, c.end = 0, len(c.value)
			}
			return goja.Undefined()
		})
	}

	inputProto := h.protos["HTMLInputElement"]
	h.accessor(inputProto, "type", func(n *hostNode) goja.Value {
		h.controlOf(n)
		return vm.ToValue(n.inputType())
	}, func(n *hostNode, v goja.Value) {
		h.controlOf(n)
		n.setAttr("type", v.String())
	})
	h.accessor(inputProto, "defaultValue", func(n *hostNode) goja.Value {
		h.controlOf(n)
		v, _ := n.attr("value")
		return vm.ToValue(v)
	}, func(n *hostNode, v goja.Value) {
		c := h.controlOf(n)
		n.setAttr("value", v.String())
		if !c.dirty {
			c.setUnits(codeUnits(v))
		}
	})
}

// controlOf returns the text control state behind n, throwing TypeError when
// n is not a textarea or input element.
func (h *Host) controlOf(n *hostNode) *textControl {
	if n.control == nil {
		panic(h.rt.vm.NewTypeError("Illegal invocation"))
	}
	return n.control
}

// selectionOffset validates an offset assigned to selectionStart/End.
func (h *Host) selectionOffset(n *hostNode, v goja.Value) int {
	if !n.selectable() {
		h.throwDOMException("InvalidStateError", "The input element's type does not support selection.")
	}
	off := int(toUint32(v))
	if off > len(n.control.value) {
		h.throwDOMException("InvalidStateError", "The selection offset is beyond the end of the value.")
	}
	return off
}

// bindDocumentMembers installs Document members.
func (h *Host) bindDocumentMembers() {
	proto := h.protos["Document"]

	h.method(proto, "createElement", func(n *hostNode, call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !isValidName(name) {
			h.throwDOMException("InvalidCharacterError", "'"+name+"' is not a valid element name.")
		}
		return h.newElement(strings.ToLower(name)).obj
	})
	h.method(proto, "getElementById", func(n *hostNode, call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		var found *hostNode
		n.walk(func(c *hostNode) bool {
			if v, ok := c.attr("id"); ok && v == id {
				found = c
				return false
			}
			return true
		})
		return h.nodeValue(found)
	})
	h.accessor(proto, "documentElement", func(n *hostNode) goja.Value {
		return h.nodeValue(h.html)
	}, nil)
	h.accessor(proto, "head", func(n *hostNode) goja.Value {
		return h.nodeValue(h.head)
	}, nil)
	h.accessor(proto, "body", func(n *hostNode) goja.Value {
		return h.nodeValue(h.body)
	}, nil)
	h.accessor(proto, "activeElement", func(n *hostNode) goja.Value {
		if h.active != nil && h.doc.isInclusiveAncestorOf(h.active) {
			return h.active.obj
		}
		return h.nodeValue(h.body)
	}, nil)
}
