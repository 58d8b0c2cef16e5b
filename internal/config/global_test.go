package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir for the test and
// clears the config cache around it.
func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)
	return dir
}

func TestGlobalConfigPath_RespectsXDG(t *testing.T) {
	dir := withConfigHome(t)
	want := filepath.Join(dir, "refcheck", "config.yaml")
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_MissingFileIsEmpty(t *testing.T) {
	withConfigHome(t)
	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig: %v", err)
	}
	if cfg.Mailto != "" || cfg.RateLimit != 0 || cfg.WebSearch {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadGlobalConfig_ParsesYAML(t *testing.T) {
	dir := withConfigHome(t)
	path := filepath.Join(dir, "refcheck", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "mailto: lab@example.org\nrate_limit: 1.5\nweb_search: true\ndefault_style: vancouver\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig: %v", err)
	}
	if cfg.Mailto != "lab@example.org" {
		t.Errorf("Mailto = %q", cfg.Mailto)
	}
	if cfg.RateLimit != 1.5 {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
	if !cfg.WebSearch {
		t.Error("WebSearch should be true")
	}
	if cfg.DefaultStyle != "vancouver" {
		t.Errorf("DefaultStyle = %q", cfg.DefaultStyle)
	}
}

func TestLoadGlobalConfig_MalformedYAML(t *testing.T) {
	dir := withConfigHome(t)
	path := filepath.Join(dir, "refcheck", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("mailto: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveGlobalConfig_RoundTrip(t *testing.T) {
	withConfigHome(t)
	in := &GlobalConfig{Mailto: "me@example.org", WebSearch: true}
	if err := SaveGlobalConfig(in); err != nil {
		t.Fatalf("SaveGlobalConfig: %v", err)
	}

	ResetGlobalConfigCache()
	out, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig: %v", err)
	}
	if out.Mailto != "me@example.org" || !out.WebSearch {
		t.Errorf("round trip lost fields: %+v", out)
	}
}

func TestLoadGlobalConfig_Caches(t *testing.T) {
	withConfigHome(t)
	if err := SaveGlobalConfig(&GlobalConfig{Mailto: "a@example.org"}); err != nil {
		t.Fatal(err)
	}

	// A direct file change must not show up until the cache is reset.
	path := GlobalConfigPath()
	if err := os.WriteFile(path, []byte("mailto: b@example.org\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadGlobalConfig()
	if cfg.Mailto != "a@example.org" {
		t.Errorf("cached Mailto = %q, want a@example.org", cfg.Mailto)
	}

	ResetGlobalConfigCache()
	cfg, _ = LoadGlobalConfig()
	if cfg.Mailto != "b@example.org" {
		t.Errorf("reloaded Mailto = %q, want b@example.org", cfg.Mailto)
	}
}

func TestMailto_Precedence(t *testing.T) {
	withConfigHome(t)
	if err := SaveGlobalConfig(&GlobalConfig{Mailto: "config@example.org"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REFCHECK_MAILTO", "")
	t.Setenv("CROSSREF_MAILTO", "")

	if got := Mailto(); got != "config@example.org" {
		t.Errorf("Mailto() = %q, want config value", got)
	}

	t.Setenv("CROSSREF_MAILTO", "crossref@example.org")
	if got := Mailto(); got != "crossref@example.org" {
		t.Errorf("Mailto() = %q, want CROSSREF_MAILTO", got)
	}

	t.Setenv("REFCHECK_MAILTO", "refcheck@example.org")
	if got := Mailto(); got != "refcheck@example.org" {
		t.Errorf("Mailto() = %q, want REFCHECK_MAILTO", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/docs"); got != filepath.Join(home, "docs") {
		t.Errorf("ExpandPath(~/docs) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
}
