package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMailto_PrecedenceFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	cfgDir := filepath.Join(dir, GlobalConfigDir)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, GlobalConfigFile), []byte("mailto: file@example.org\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REFCHECK_MAILTO", "")
	t.Setenv("CROSSREF_MAILTO", "")
	if got := Mailto(); got != "file@example.org" {
		t.Errorf("config file: Mailto() = %q", got)
	}

	t.Setenv("CROSSREF_MAILTO", "crossref@example.org")
	if got := Mailto(); got != "crossref@example.org" {
		t.Errorf("CROSSREF_MAILTO: Mailto() = %q", got)
	}

	t.Setenv("REFCHECK_MAILTO", "refcheck@example.org")
	if got := Mailto(); got != "refcheck@example.org" {
		t.Errorf("REFCHECK_MAILTO: Mailto() = %q", got)
	}
}

func TestMailto_Empty(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REFCHECK_MAILTO", "")
	t.Setenv("CROSSREF_MAILTO", "")
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	if got := Mailto(); got != "" {
		t.Errorf("Mailto() = %q, want empty", got)
	}
}

func TestExpandPathTable(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"~", home},
		{"~/docs", filepath.Join(home, "docs")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
