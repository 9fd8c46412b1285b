package js

import (
	"strings"
	"testing"
)

const formPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Form</title></head>
<body>
  <form id="f">
    <textarea id="comment" rows="3">Dear reader</textarea>
    <input id="email" type="email" value="a@example.com">
    <input id="name" value="Ada">
  </form>
  <script>
    var seen = document.getElementById('comment').value;
    document.getElementById('name').value = 'Grace';
  </script>
</body>
</html>`

func TestLoadHTML(t *testing.T) {
	r := NewRuntime()
	h := NewHost(r)

	if err := h.LoadHTML(formPage); err != nil {
		t.Fatalf("LoadHTML failed: %v", err)
	}

	tests := []struct {
		code string
		want string
	}{
		{"document.documentElement.getAttribute('lang')", "en"},
		{"document.getElementById('f').constructor.name", "HTMLUnknownElement"},
		{"document.getElementById('comment').value", "Dear reader"},
		{"document.getElementById('comment').getAttribute('rows')", "3"},
		{"document.getElementById('comment').selectionStart", "11"},
		{"document.getElementById('email').value", "a@example.com"},
		{"document.getElementById('email').selectionStart", "null"},
		{"document.getElementById('name').value", "Grace"},
		{"document.getElementById('name').defaultValue", "Ada"},
		{"seen", "Dear reader"},
		{"document.querySelector('form').childElementCount", "3"},
		{"document.body.querySelector('script') !== null", "true"},
	}
	for _, tt := range tests {
		if got := evalString(t, r, tt.code); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestLoadHTMLReplacesDocument(t *testing.T) {
	r := NewRuntime()
	h := NewHost(r)

	if err := h.LoadHTML(`<body><p id="first"></p></body>`); err != nil {
		t.Fatalf("LoadHTML failed: %v", err)
	}
	old := h.Document()
	if err := h.LoadHTML(`<body><p id="second"></p></body>`); err != nil {
		t.Fatalf("LoadHTML failed: %v", err)
	}
	if h.Document() == old {
		t.Error("Expected a new document object")
	}
	if got := evalString(t, r, "document.getElementById('first') === null && document.getElementById('second') !== null"); got != "true" {
		t.Errorf("Expected only the second page's elements, got %s", got)
	}
}

func TestLoadHTMLScriptError(t *testing.T) {
	r := NewRuntime()
	h := NewHost(r)

	err := h.LoadHTML(`<body><script>throw new Error('broken page')</script></body>`)
	if err == nil {
		t.Fatal("Expected script error")
	}
	if !strings.Contains(err.Error(), "inline script 0") {
		t.Errorf("Expected error to name the script, got %v", err)
	}
}
