package js

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LoadHTML replaces the document with the tree parsed from markup, then runs
// the page's inline scripts in document order. Text outside textarea and
// script elements is dropped; the host has no Text nodes.
func (h *Host) LoadHTML(markup string) error {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	var scripts []string

	h.rt.mu.Lock()
	h.resetDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			copyAttrs(h.html, c)
			h.buildChildren(h.html, c, &scripts)
		}
	}
	h.rt.mu.Unlock()

	h.rt.log.Debug("document loaded",
		zap.Int("scripts", len(scripts)),
		zap.Int("bytes", len(markup)))

	for i, src := range scripts {
		if err := h.rt.ExecuteScript(src, fmt.Sprintf("inline-script-%d.js", i)); err != nil {
			return fmt.Errorf("inline script %d: %w", i, err)
		}
	}
	return nil
}

// buildChildren must be called with the runtime lock held.
func (h *Host) buildChildren(parent *hostNode, src *html.Node, scripts *[]string) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		var el *hostNode
		switch c.DataAtom {
		case atom.Head:
			el = h.head
		case atom.Body:
			el = h.body
		default:
			el = h.newElement(strings.ToLower(c.Data))
			parent.appendChild(el)
		}
		copyAttrs(el, c)

		switch c.DataAtom {
		case atom.Textarea:
			el.control.setValue(textContent(c))
			continue
		case atom.Input:
			if v, ok := el.attr("value"); ok {
				el.control.setValue(v)
			}
		case atom.Script:
			*scripts = append(*scripts, textContent(c))
			continue
		}

		h.buildChildren(el, c, scripts)
	}
}

func copyAttrs(dst *hostNode, src *html.Node) {
	for _, a := range src.Attr {
		dst.setAttr(strings.ToLower(a.Key), a.Val)
	}
}

// textContent concatenates the text of all descendants of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
