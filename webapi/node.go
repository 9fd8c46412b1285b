package webapi

import "github.com/chrisuehlinger/webref/webcore"

// Node types reported by NodeType.
const (
	ElementNode  = 1
	DocumentNode = 9
)

// INode is implemented by wrappers of DOM nodes.
type INode interface {
	IEventTarget
	AsNode() Node
}

// Node wraps a DOM Node.
//
// https://dom.spec.whatwg.org/#interface-node
type Node struct {
	EventTarget
}

func wrapNode(r webcore.Reference) Node { return Node{EventTarget{r}} }

// AsNode returns n viewed as a Node. The view shares n's claim.
func (n Node) AsNode() Node { return n }

// NodeType returns the type of the node, e.g. ElementNode.
func (n Node) NodeType() int {
	return getInt(n.Reference, "nodeType")
}

// NodeName returns the name of the node: the upper-cased tag name of an
// element, "#document" for a document.
func (n Node) NodeName() string {
	return getString(n.Reference, "nodeName")
}

// ParentNode returns the parent of the node. The caller owns the result.
func (n Node) ParentNode() (Node, bool) {
	return getNullable(n.Reference, "parentNode", NodeType)
}

// AppendChild adds child as the last child of n, moving it from its current
// parent. It fails with *webcore.HierarchyRequestError if child is n or one
// of its ancestors.
func (n Node) AppendChild(child INode) error {
	return n.Exec("appendChild", webcore.Ref(child))
}

// RemoveChild removes child from n. It fails with *webcore.NotFoundError if
// child is not a child of n.
func (n Node) RemoveChild(child INode) error {
	return n.Exec("removeChild", webcore.Ref(child))
}

// Contains reports whether other is n or one of its descendants.
func (n Node) Contains(other INode) bool {
	v := webcore.Must(n.Call("contains", webcore.Ref(other)))
	return webcore.Must(webcore.ToBool(v))
}

// IsSameNode reports whether n and other wrap the same object.
func (n Node) IsSameNode(other INode) bool {
	return n.Handle().Equal(other.Handle())
}
