package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrisuehlinger/webref/webcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webprobe.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
page = "form.html"
policy = "prototype"
elements = ["comment", "email"]

[log]
level = "debug"
development = true
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Page != "form.html" {
		t.Errorf("expected page form.html, got %q", c.Page)
	}
	if len(c.Elements) != 2 || c.Elements[0] != "comment" || c.Elements[1] != "email" {
		t.Errorf("unexpected elements %v", c.Elements)
	}
	p, err := c.Policy()
	if err != nil || p != webcore.MatchPrototype {
		t.Errorf("expected prototype policy, got %v (%v)", p, err)
	}
	if c.Log.Level != "debug" || !c.Log.Development {
		t.Errorf("unexpected log section %+v", c.Log)
	}

	log, err := c.Logger()
	if err != nil {
		t.Fatalf("Logger failed: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Error("expected debug logging to be enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `page = "index.html"`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, err := c.Policy()
	if err != nil || p != webcore.MatchLineage {
		t.Errorf("expected lineage policy by default, got %v (%v)", p, err)
	}
	if c.Log.Level != "warn" {
		t.Errorf("expected warn level by default, got %q", c.Log.Level)
	}

	log, err := c.Logger()
	if err != nil {
		t.Fatalf("Logger failed: %v", err)
	}
	if log.Core().Enabled(0) {
		t.Error("expected info logging to be disabled at warn level")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `page = `, "parse error"},
		{"unknown key", `pages = "x.html"`, "unknown keys: pages"},
		{"bad policy", `policy = "loose"`, "unknown downcast policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoggerBadLevel(t *testing.T) {
	c := Default()
	c.Log.Level = "loud"
	if _, err := c.Logger(); err == nil {
		t.Error("expected error for unknown level")
	}
}
