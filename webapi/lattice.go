// Package webapi provides typed Go wrappers for DOM objects living in a js
// host. Each wrapper embeds the wrapper of its parent interface, so a
// TextAreaElement can be passed wherever an IElement or INode is accepted.
// Narrowing in the other direction goes through the Type values declared
// here and is checked against the object's runtime constructor.
package webapi

import "github.com/chrisuehlinger/webref/webcore"

// Lattice holds the DOM interfaces the wrappers in this package know about.
var Lattice = webcore.NewLattice()

var (
	eventTargetInterface = Lattice.MustDefine("EventTarget")
	nodeInterface        = Lattice.MustDefine("Node", eventTargetInterface)
	parentNodeInterface  = Lattice.MustDefine("ParentNode")
	elementInterface     = Lattice.MustDefine("Element", nodeInterface, parentNodeInterface)
	htmlElementInterface = Lattice.MustDefine("HTMLElement", elementInterface)
	documentInterface    = Lattice.MustDefine("Document", nodeInterface, parentNodeInterface)

	textAreaInterface = Lattice.MustDefine("HTMLTextAreaElement", htmlElementInterface)
	inputInterface    = Lattice.MustDefine("HTMLInputElement", htmlElementInterface)
)

func init() {
	for _, name := range []string{
		"HTMLHtmlElement",
		"HTMLHeadElement",
		"HTMLBodyElement",
		"HTMLDivElement",
		"HTMLSpanElement",
		"HTMLParagraphElement",
		"HTMLButtonElement",
		"HTMLScriptElement",
		"HTMLUnknownElement",
	} {
		Lattice.MustDefine(name, htmlElementInterface)
	}
}

// Wrapper types, usable for downcasts from values and from other wrappers.
var (
	EventTargetType     = webcore.DefineType(eventTargetInterface, wrapEventTarget)
	NodeType            = webcore.DefineType(nodeInterface, wrapNode)
	ElementType         = webcore.DefineType(elementInterface, wrapElement)
	HTMLElementType     = webcore.DefineType(htmlElementInterface, wrapHTMLElement)
	DocumentType        = webcore.DefineType(documentInterface, wrapDocument)
	TextAreaElementType = webcore.DefineType(textAreaInterface, wrapTextAreaElement)
	InputElementType    = webcore.DefineType(inputInterface, wrapInputElement)
)
