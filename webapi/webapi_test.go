package webapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/webref/js"
	"github.com/chrisuehlinger/webref/webcore"
)

type fixture struct {
	rt   *js.Runtime
	host *js.Host
	br   *webcore.Bridge
	doc  Document
}

func newFixture(t *testing.T, opts ...webcore.Option) *fixture {
	t.Helper()
	rt := js.NewRuntime()
	host := js.NewHost(rt)
	br := webcore.New(rt, opts...)
	doc, err := DocumentOf(br)
	require.NoError(t, err)
	f := &fixture{rt: rt, host: host, br: br, doc: doc}
	t.Cleanup(func() { f.doc.Drop() })
	return f
}

func (f *fixture) load(t *testing.T, markup string) {
	t.Helper()
	// Loading replaces the document, so the fixture's wrapper is renewed.
	f.doc.Drop()
	require.NoError(t, f.host.LoadHTML(markup))
	doc, err := DocumentOf(f.br)
	require.NoError(t, err)
	f.doc = doc
}

func (f *fixture) textArea(t *testing.T) TextAreaElement {
	t.Helper()
	ta, err := CreateElementAs(f.doc, "textarea", TextAreaElementType)
	require.NoError(t, err)
	t.Cleanup(ta.Drop)
	return ta
}

func (f *fixture) input(t *testing.T) InputElement {
	t.Helper()
	in, err := CreateElementAs(f.doc, "input", InputElementType)
	require.NoError(t, err)
	t.Cleanup(in.Drop)
	return in
}
