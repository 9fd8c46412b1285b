package webapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webref/webcore"
)

func TestInputValue(t *testing.T) {
	f := newFixture(t)
	in := f.input(t)

	assert.Equal(t, "text", in.Type())
	in.SetDefaultValue("seed")
	assert.Equal(t, "seed", in.Value())

	in.SetValue("typed")
	in.SetDefaultValue("later")
	assert.Equal(t, "typed", in.Value())
	assert.Equal(t, "later", in.DefaultValue())
	v, ok := in.GetAttribute("value")
	assert.True(t, ok)
	assert.Equal(t, "later", v)
}

func TestInputSelection(t *testing.T) {
	f := newFixture(t)
	in := f.input(t)
	in.SetValue("hello")

	start, ok := in.SelectionStart()
	require.True(t, ok)
	assert.Equal(t, uint32(5), start)

	require.NoError(t, in.SetSelectionRange(1, 2))
	start, _ = in.SelectionStart()
	end, _ := in.SelectionEnd()
	assert.Equal(t, uint32(1), start)
	assert.Equal(t, uint32(2), end)

	var ise *webcore.InvalidStateError
	assert.ErrorAs(t, in.SetSelectionEnd(6), &ise)
}

func TestInputWithoutSelection(t *testing.T) {
	f := newFixture(t)
	in := f.input(t)
	in.SetType("number")
	in.SetValue("42")

	_, ok := in.SelectionStart()
	assert.False(t, ok)
	_, ok = in.SelectionEnd()
	assert.False(t, ok)

	var ise *webcore.InvalidStateError
	assert.ErrorAs(t, in.SetSelectionStart(0), &ise)
	assert.ErrorAs(t, in.SetSelectionEnd(0), &ise)
	assert.ErrorAs(t, in.SetSelectionRange(0, 1), &ise)

	in.Select()
	assert.Equal(t, "42", in.Value())
}

func TestInputIsNotTextArea(t *testing.T) {
	f := newFixture(t)
	in := f.input(t)

	_, err := TextAreaElementType.Cast(in)
	assert.ErrorIs(t, err, webcore.ErrTypeMismatch)

	el, err := HTMLElementType.Cast(in)
	require.NoError(t, err)
	defer el.Drop()
	back, err := InputElementType.Cast(el)
	require.NoError(t, err)
	defer back.Drop()
	assert.True(t, back.IsSameNode(in))
}
