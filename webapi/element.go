package webapi

import "github.com/chrisuehlinger/webref/webcore"

// IElement is implemented by wrappers of DOM elements.
type IElement interface {
	IParentNode
	AsElement() Element
}

// Element wraps a DOM Element.
//
// https://dom.spec.whatwg.org/#interface-element
type Element struct {
	Node
}

func wrapElement(r webcore.Reference) Element { return Element{wrapNode(r)} }

// AsElement returns e viewed as an Element. The view shares e's claim.
func (e Element) AsElement() Element { return e }

// AsParentNode returns e viewed through the ParentNode mixin.
func (e Element) AsParentNode() ParentNode { return ParentNode{e.Reference} }

// TagName returns the upper-cased qualified name.
func (e Element) TagName() string {
	return getString(e.Reference, "tagName")
}

// LocalName returns the local name.
func (e Element) LocalName() string {
	return getString(e.Reference, "localName")
}

// ID returns the id attribute, or "" if it is not set.
func (e Element) ID() string {
	return getString(e.Reference, "id")
}

// SetID sets the id attribute.
func (e Element) SetID(id string) {
	setMember(e.Reference, "id", webcore.String(id))
}

// GetAttribute returns the value of the named attribute.
func (e Element) GetAttribute(name string) (string, bool) {
	v := webcore.Must(e.Call("getAttribute", webcore.String(name)))
	s := webcore.Must(webcore.Nullable(v, webcore.ToString))
	if s == nil {
		return "", false
	}
	return *s, true
}

// HasAttribute reports whether the named attribute is set.
func (e Element) HasAttribute(name string) bool {
	v := webcore.Must(e.Call("hasAttribute", webcore.String(name)))
	return webcore.Must(webcore.ToBool(v))
}

// SetAttribute sets the named attribute. It fails with
// *webcore.InvalidCharacterError if name is not a valid attribute name.
func (e Element) SetAttribute(name, value string) error {
	return e.Exec("setAttribute", webcore.String(name), webcore.String(value))
}

// RemoveAttribute removes the named attribute if it is set.
func (e Element) RemoveAttribute(name string) {
	webcore.Check(e.Exec("removeAttribute", webcore.String(name)))
}

// ChildElementCount returns the number of element children.
func (e Element) ChildElementCount() int {
	return e.AsParentNode().ChildElementCount()
}

// QuerySelector returns the first descendant matching selector.
func (e Element) QuerySelector(selector string) (Element, bool, error) {
	return e.AsParentNode().QuerySelector(selector)
}
