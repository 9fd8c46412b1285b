package webapi

import "github.com/chrisuehlinger/webref/webcore"

// TextAreaElement wraps an HTMLTextAreaElement, a multi-line plain text
// editing control.
//
// https://html.spec.whatwg.org/#htmltextareaelement
type TextAreaElement struct {
	HTMLElement
}

func wrapTextAreaElement(r webcore.Reference) TextAreaElement {
	return TextAreaElement{wrapHTMLElement(r)}
}

// Value returns the value of the control. Unpaired surrogates entered from
// script are replaced by U+FFFD; read the "value" member through
// webcore.ToString to detect them.
func (t TextAreaElement) Value() string {
	return getText(t.Reference, "value")
}

// SetValue sets the value of the control and moves the selection to its end.
// value must be valid UTF-8.
func (t TextAreaElement) SetValue(value string) {
	setMember(t.Reference, "value", webcore.String(value))
}

// TextLength returns the length of the value in UTF-16 code units.
func (t TextAreaElement) TextLength() int {
	return getInt(t.Reference, "textLength")
}

// SelectionStart returns the offset to the start of the selection.
//
// https://html.spec.whatwg.org/#dom-textarea/input-selectionstart
func (t TextAreaElement) SelectionStart() uint32 {
	return getUint32(t.Reference, "selectionStart")
}

// SetSelectionStart sets the offset to the start of the selection. An offset
// past the end of the value fails with *webcore.InvalidStateError.
func (t TextAreaElement) SetSelectionStart(offset uint32) error {
	return t.Set("selectionStart", webcore.Number(offset))
}

// SelectionEnd returns the offset to the end of the selection.
//
// https://html.spec.whatwg.org/#dom-textarea/input-selectionend
func (t TextAreaElement) SelectionEnd() uint32 {
	return getUint32(t.Reference, "selectionEnd")
}

// SetSelectionEnd sets the offset to the end of the selection. An offset past
// the end of the value fails with *webcore.InvalidStateError.
func (t TextAreaElement) SetSelectionEnd(offset uint32) error {
	return t.Set("selectionEnd", webcore.Number(offset))
}

// SetSelectionRange selects the range [start, end), clamping both offsets to
// the length of the value.
func (t TextAreaElement) SetSelectionRange(start, end uint32) {
	webcore.Check(t.Exec("setSelectionRange", webcore.Number(start), webcore.Number(end)))
}

// Select selects the whole value.
func (t TextAreaElement) Select() {
	webcore.Check(t.Exec("select"))
}
