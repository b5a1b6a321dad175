package rod_browser

import (
	"testing"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/CodexSoftwareDevelopment/LeadSweep/internal/repository"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		key     repository.Key
		want    input.Key
		wantErr bool
	}{
		{repository.KeyPageDown, input.PageDown, false},
		{repository.Key("F13"), 0, true},
	}
	for _, tt := range tests {
		got, err := keyFor(tt.key)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("keyFor(%q) = (%v, %v)", tt.key, got, err)
		}
	}
}

func TestNewLauncherFlags(t *testing.T) {
	l := newLauncher(repository.LaunchOptions{
		Headless:      true,
		ExecPath:      "/usr/bin/chromium",
		UserAgent:     "test-agent",
		DisableImages: true,
		WindowWidth:   800,
		WindowHeight:  600,
	})

	tests := []struct {
		flag flags.Flag
		want string
	}{
		{"user-agent", "test-agent"},
		{"window-size", "800,600"},
		{"blink-settings", "imagesEnabled=false"},
	}
	for _, tt := range tests {
		if !l.Has(tt.flag) {
			t.Errorf("flag %s not set", tt.flag)
			continue
		}
		if got := l.Get(tt.flag); got != tt.want {
			t.Errorf("flag %s = %q, want %q", tt.flag, got, tt.want)
		}
	}
	if !l.Has("headless") {
		t.Error("headless flag not set")
	}
}
