package webapi

import "github.com/chrisuehlinger/webref/webcore"

// IHTMLElement is implemented by wrappers of HTML elements.
type IHTMLElement interface {
	IElement
	AsHTMLElement() HTMLElement
}

// HTMLElement wraps an HTMLElement.
//
// https://html.spec.whatwg.org/#htmlelement
type HTMLElement struct {
	Element
}

func wrapHTMLElement(r webcore.Reference) HTMLElement { return HTMLElement{wrapElement(r)} }

// AsHTMLElement returns e viewed as an HTMLElement. The view shares e's claim.
func (e HTMLElement) AsHTMLElement() HTMLElement { return e }

// Title returns the advisory title.
func (e HTMLElement) Title() string {
	return getString(e.Reference, "title")
}

// SetTitle sets the advisory title.
func (e HTMLElement) SetTitle(title string) {
	setMember(e.Reference, "title", webcore.String(title))
}

// Hidden reports whether the hidden attribute is set.
func (e HTMLElement) Hidden() bool {
	return getBool(e.Reference, "hidden")
}

// SetHidden sets or removes the hidden attribute.
func (e HTMLElement) SetHidden(hidden bool) {
	setMember(e.Reference, "hidden", webcore.Bool(hidden))
}

// Focus makes e the document's active element, if e is in the document.
func (e HTMLElement) Focus() {
	webcore.Check(e.Exec("focus"))
}

// Blur removes focus from e.
func (e HTMLElement) Blur() {
	webcore.Check(e.Exec("blur"))
}
