package webapi

import "github.com/chrisuehlinger/webref/webcore"

// InputElement wraps an HTMLInputElement. Unlike a textarea, the selection
// members only apply to text-like input types.
//
// https://html.spec.whatwg.org/#htmlinputelement
type InputElement struct {
	HTMLElement
}

func wrapInputElement(r webcore.Reference) InputElement {
	return InputElement{wrapHTMLElement(r)}
}

// Type returns the input type, "text" when unset.
func (i InputElement) Type() string {
	return getString(i.Reference, "type")
}

// SetType sets the type attribute.
func (i InputElement) SetType(typ string) {
	setMember(i.Reference, "type", webcore.String(typ))
}

// Value returns the current value, with unpaired surrogates replaced by
// U+FFFD.
func (i InputElement) Value() string {
	return getText(i.Reference, "value")
}

// SetValue sets the current value. The value attribute is left alone. value
// must be valid UTF-8.
func (i InputElement) SetValue(value string) {
	setMember(i.Reference, "value", webcore.String(value))
}

// DefaultValue returns the value attribute.
func (i InputElement) DefaultValue() string {
	return getString(i.Reference, "defaultValue")
}

// SetDefaultValue sets the value attribute. The current value follows it
// until the value is changed through SetValue.
func (i InputElement) SetDefaultValue(value string) {
	setMember(i.Reference, "defaultValue", webcore.String(value))
}

// SelectionStart returns the start of the selection, or false if the input
// type does not support selection.
func (i InputElement) SelectionStart() (uint32, bool) {
	return getOptionalUint32(i.Reference, "selectionStart")
}

// SetSelectionStart sets the start of the selection. It fails with
// *webcore.InvalidStateError if the type does not support selection or the
// offset is past the end of the value.
func (i InputElement) SetSelectionStart(offset uint32) error {
	return i.Set("selectionStart", webcore.Number(offset))
}

// SelectionEnd returns the end of the selection, or false if the input type
// does not support selection.
func (i InputElement) SelectionEnd() (uint32, bool) {
	return getOptionalUint32(i.Reference, "selectionEnd")
}

// SetSelectionEnd sets the end of the selection, failing as SetSelectionStart.
func (i InputElement) SetSelectionEnd(offset uint32) error {
	return i.Set("selectionEnd", webcore.Number(offset))
}

// SetSelectionRange selects [start, end), clamped to the value. It fails with
// *webcore.InvalidStateError if the type does not support selection.
func (i InputElement) SetSelectionRange(start, end uint32) error {
	return i.Exec("setSelectionRange", webcore.Number(start), webcore.Number(end))
}

// Select selects the whole value. It does nothing for types without
// selection.
func (i InputElement) Select() {
	webcore.Check(i.Exec("select"))
}
