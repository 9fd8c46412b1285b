package webapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webref/webcore"
)

func TestTextAreaValueRoundTrip(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)

	ta.SetValue("hello")
	assert.Equal(t, "hello", ta.Value())
	assert.Equal(t, 5, ta.TextLength())

	ta.SetValue("line one\nline two 😀")
	assert.Equal(t, "line one\nline two 😀", ta.Value())
	assert.Equal(t, 20, ta.TextLength())
}

func TestTextAreaFreshSelection(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)

	assert.Equal(t, "", ta.Value())
	assert.Equal(t, uint32(0), ta.SelectionStart())
	assert.Equal(t, uint32(0), ta.SelectionEnd())
}

func TestTextAreaSelectionBeyondLength(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)
	ta.SetValue("abc")

	err := ta.SetSelectionStart(4)
	var ise *webcore.InvalidStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "InvalidStateError", ise.Name)

	require.ErrorAs(t, ta.SetSelectionEnd(100), &ise)

	// The failed assignments left the selection alone.
	assert.Equal(t, uint32(3), ta.SelectionStart())
	assert.Equal(t, uint32(3), ta.SelectionEnd())
}

func TestTextAreaSelection(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)
	ta.SetValue("abcdef")

	require.NoError(t, ta.SetSelectionStart(1))
	require.NoError(t, ta.SetSelectionEnd(4))
	assert.Equal(t, uint32(1), ta.SelectionStart())
	assert.Equal(t, uint32(4), ta.SelectionEnd())

	// Moving the end before the start drags the start along.
	require.NoError(t, ta.SetSelectionEnd(0))
	assert.Equal(t, uint32(0), ta.SelectionStart())
	assert.Equal(t, uint32(0), ta.SelectionEnd())

	require.NoError(t, ta.SetSelectionStart(6))
	assert.Equal(t, uint32(6), ta.SelectionEnd())

	ta.SetSelectionRange(2, 99)
	assert.Equal(t, uint32(2), ta.SelectionStart())
	assert.Equal(t, uint32(6), ta.SelectionEnd())

	ta.Select()
	assert.Equal(t, uint32(0), ta.SelectionStart())
	assert.Equal(t, uint32(6), ta.SelectionEnd())
}

func TestTextAreaCapabilities(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)

	// Static upcasts: a TextAreaElement is accepted wherever an ancestor
	// capability is.
	var (
		_ IEventTarget = ta
		_ INode        = ta
		_ IParentNode  = ta
		_ IElement     = ta
		_ IHTMLElement = ta
	)

	assert.Equal(t, "TEXTAREA", ta.TagName())
	assert.Equal(t, "TEXTAREA", ta.NodeName())
	assert.Equal(t, ElementNode, ta.NodeType())
	assert.True(t, ta.AsNode().IsSameNode(ta))
	assert.Equal(t, ta.Handle(), ta.AsElement().Handle(), "views share the claim")
	assert.Equal(t, 2, f.rt.Outstanding(), "document and textarea")
}

func TestTextAreaDowncastFromElement(t *testing.T) {
	f := newFixture(t)
	f.load(t, `<body><textarea id="notes">draft</textarea><div id="box"></div></body>`)

	el, ok := f.doc.GetElementByID("notes")
	require.True(t, ok)
	defer el.Drop()

	ta, err := TextAreaElementType.Cast(el)
	require.NoError(t, err)
	defer ta.Drop()
	assert.Equal(t, "draft", ta.Value())
	assert.True(t, ta.IsSameNode(el))

	box, ok := f.doc.GetElementByID("box")
	require.True(t, ok)
	defer box.Drop()
	_, err = TextAreaElementType.Cast(box)
	assert.ErrorIs(t, err, webcore.ErrTypeMismatch)
}

func TestTextAreaNoReturnMutationError(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)

	err := ta.SetAttribute("bad name", "x")
	var ice *webcore.InvalidCharacterError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, 5, ice.Code)
	assert.False(t, ta.HasAttribute("bad name"))
}

func TestTextAreaUseAfterDrop(t *testing.T) {
	f := newFixture(t)
	ta, err := CreateElementAs(f.doc, "textarea", TextAreaElementType)
	require.NoError(t, err)
	ta.Drop()

	assert.ErrorIs(t, ta.SetSelectionStart(0), webcore.ErrReleased)
	assert.PanicsWithError(t, "webcore: invariant violated: get value: webcore: reference released", func() {
		_ = ta.Value()
	})
}

func TestTextAreaScriptSurrogates(t *testing.T) {
	f := newFixture(t)
	f.load(t, `<body><textarea id="notes"></textarea>
<script>document.getElementById('notes').value = 'a\uD800b';</script></body>`)

	el, ok := f.doc.GetElementByID("notes")
	require.True(t, ok)
	defer el.Drop()
	ta, err := TextAreaElementType.Cast(el)
	require.NoError(t, err)
	defer ta.Drop()

	assert.Equal(t, 3, ta.TextLength())
	assert.Equal(t, "a�b", ta.Value())

	v, err := ta.Get("value")
	require.NoError(t, err)
	_, err = webcore.ToString(v)
	assert.ErrorIs(t, err, webcore.ErrLossyConversion)
}

func TestTextAreaSetValueInvalidUTF8(t *testing.T) {
	f := newFixture(t)
	ta := f.textArea(t)
	ta.SetValue("kept")

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		ta.SetValue("a\xffb")
	}()
	err, ok := recovered.(error)
	require.True(t, ok, "expected a panic with an error value, got %v", recovered)
	var ie *webcore.InvariantError
	assert.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, webcore.ErrLossyConversion)
	assert.Equal(t, "kept", ta.Value())
}
