package webapi

import "github.com/chrisuehlinger/webref/webcore"

// IParentNode is implemented by wrappers of nodes that can have element
// children: elements and documents.
type IParentNode interface {
	INode
	AsParentNode() ParentNode
}

// ParentNode is the ParentNode mixin. It is a view borrowed from an Element
// or Document and has no claim of its own.
//
// https://dom.spec.whatwg.org/#interface-parentnode
type ParentNode struct {
	webcore.Reference
}

// ChildElementCount returns the number of element children.
func (p ParentNode) ChildElementCount() int {
	return getInt(p.Reference, "childElementCount")
}

// QuerySelector returns the first descendant element matching selector. It
// fails with *webcore.SyntaxError for a selector the host cannot parse. The
// caller owns the result.
func (p ParentNode) QuerySelector(selector string) (Element, bool, error) {
	v, err := p.Call("querySelector", webcore.String(selector))
	if err != nil {
		return Element{}, false, err
	}
	el, err := webcore.Nullable(v, ElementType.AssumeDecoder())
	if err != nil || el == nil {
		return Element{}, false, err
	}
	return *el, true, nil
}
