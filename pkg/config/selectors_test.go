package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CodexSoftwareDevelopment/LeadSweep/pkg/config"
)

func TestDefaultSelectors(t *testing.T) {
	s, err := config.LoadSelectors("")
	if err != nil {
		t.Fatalf("LoadSelectors() error = %v", err)
	}
	if s.Feed != `div[role="feed"]` {
		t.Errorf("Feed = %q", s.Feed)
	}
	if s.Card != "div.Nv2PK" {
		t.Errorf("Card = %q", s.Card)
	}
	if s.PanelLabel != "h1.DUwDvf" {
		t.Errorf("PanelLabel = %q", s.PanelLabel)
	}
	if s.Fields.Website.Attr != "href" {
		t.Errorf("Fields.Website.Attr = %q, want href", s.Fields.Website.Attr)
	}
	if s.Fields.Phone.Attr != "" {
		t.Errorf("Fields.Phone.Attr = %q, want text lookup", s.Fields.Phone.Attr)
	}
}

func TestLoadSelectorsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	content := []byte(`
card: 'div.result'
fields:
  phone:
    css: 'span.tel'
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := config.LoadSelectors(path)
	if err != nil {
		t.Fatalf("LoadSelectors() error = %v", err)
	}
	if s.Card != "div.result" {
		t.Errorf("Card = %q, want override", s.Card)
	}
	if s.Fields.Phone.CSS != "span.tel" {
		t.Errorf("Fields.Phone.CSS = %q, want override", s.Fields.Phone.CSS)
	}
	if s.Feed != `div[role="feed"]` {
		t.Errorf("Feed = %q, want built-in value kept", s.Feed)
	}
	if s.Fields.Website.CSS == "" {
		t.Error("Fields.Website lost its built-in value")
	}
}

func TestLoadSelectorsRejectsEmpty(t *testing.T) {
	for _, key := range []string{"feed", "card", "panel_label"} {
		t.Run(key, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "selectors.yaml")
			if err := os.WriteFile(path, []byte(key+": ''\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := config.LoadSelectors(path); err == nil {
				t.Errorf("LoadSelectors() error = nil, want error for empty %s", key)
			}
		})
	}
}
