package chromedp_browser

import (
	"strings"
	"testing"

	"github.com/chromedp/chromedp/kb"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		key     repository.Key
		want    string
		wantErr bool
	}{
		{repository.KeyPageDown, kb.PageDown, false},
		{repository.Key("F13"), "", true},
	}
	for _, tt := range tests {
		got, err := keyFor(tt.key)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("keyFor(%q) = (%q, %v)", tt.key, got, err)
		}
	}
}

func TestJSStringEscapesSelectors(t *testing.T) {
	got := jsString(`button[data-item-id="address"]`)
	want := `"button[data-item-id=\"address\"]"`
	if got != want {
		t.Errorf("jsString() = %s, want %s", got, want)
	}
}

func TestFirstMatchScript(t *testing.T) {
	script := firstMatchScript("h1.DUwDvf", "innerText")
	for _, want := range []string{`document.querySelector("h1.DUwDvf")`, "el.innerText", "found: false"} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestAllocatorOptions(t *testing.T) {
	base := len(allocatorOptions(repository.LaunchOptions{}))
	full := len(allocatorOptions(repository.LaunchOptions{
		ExecPath:      "/usr/bin/chromium",
		UserAgent:     "test-agent",
		DisableImages: true,
		WindowWidth:   800,
		WindowHeight:  600,
	}))
	if full != base+4 {
		t.Errorf("got %d options with everything set, want %d", full, base+4)
	}
}
