package webapi

import (
	"fmt"

	"github.com/chrisuehlinger/webref/webcore"
)

// Document wraps a DOM Document.
//
// https://dom.spec.whatwg.org/#interface-document
type Document struct {
	Node
}

func wrapDocument(r webcore.Reference) Document { return Document{wrapNode(r)} }

// DocumentOf returns the global document of the runtime behind b.
func DocumentOf(b *webcore.Bridge) (Document, error) {
	v, err := b.Global("document")
	if err != nil {
		return Document{}, err
	}
	doc, err := DocumentType.Downcast(v)
	if err != nil {
		return Document{}, fmt.Errorf("document: %w", err)
	}
	return doc, nil
}

// AsParentNode returns d viewed through the ParentNode mixin.
func (d Document) AsParentNode() ParentNode { return ParentNode{d.Reference} }

// CreateElement creates an element with the given local name. It fails with
// *webcore.InvalidCharacterError for an invalid name. The caller owns the
// result.
func (d Document) CreateElement(localName string) (HTMLElement, error) {
	v, err := d.Call("createElement", webcore.String(localName))
	if err != nil {
		return HTMLElement{}, err
	}
	return HTMLElementType.Assume(v)
}

// CreateElementAs creates an element and narrows it to T. The claim taken by
// the narrowing is the only one; nothing needs dropping on failure.
func CreateElementAs[T webcore.ReferenceType](d Document, localName string, t *webcore.Type[T]) (T, error) {
	var zero T
	v, err := d.Call("createElement", webcore.String(localName))
	if err != nil {
		return zero, err
	}
	return t.Downcast(v)
}

// GetElementByID returns the first element in the document whose id is id.
// The caller owns the result.
func (d Document) GetElementByID(id string) (Element, bool) {
	v := webcore.Must(d.Call("getElementById", webcore.String(id)))
	el := webcore.Must(webcore.Nullable(v, ElementType.AssumeDecoder()))
	if el == nil {
		return Element{}, false
	}
	return *el, true
}

// DocumentElement returns the root element.
func (d Document) DocumentElement() (Element, bool) {
	return getNullable(d.Reference, "documentElement", ElementType)
}

// Head returns the head element.
func (d Document) Head() (HTMLElement, bool) {
	return getNullable(d.Reference, "head", HTMLElementType)
}

// Body returns the body element.
func (d Document) Body() (HTMLElement, bool) {
	return getNullable(d.Reference, "body", HTMLElementType)
}

// ActiveElement returns the focused element, or the body when no element is
// focused.
func (d Document) ActiveElement() (HTMLElement, bool) {
	return getNullable(d.Reference, "activeElement", HTMLElementType)
}

// ChildElementCount returns the number of element children.
func (d Document) ChildElementCount() int {
	return d.AsParentNode().ChildElementCount()
}

// QuerySelector returns the first element matching selector.
func (d Document) QuerySelector(selector string) (Element, bool, error) {
	return d.AsParentNode().QuerySelector(selector)
}
