package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configHomePath = ""
	t.Cleanup(func() { configHomePath = "" })
	dir := filepath.Join(tmpDir, "placard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setConfigHome(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := setConfigHome(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("language: Tamil\n"), 0600); err != nil {
		t.Fatal(err)
	}
	profileYAML := `
language: Hindi
backend: raster
fontSize: 64
translator:
  endpoint: http://localhost:8080/translate
  retryMax: 0
  timeout: 5s
`
	if err := os.WriteFile(filepath.Join(dir, "config-festival.yaml"), []byte(profileYAML), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("festival")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	zero := 0
	want := Default()
	want.Language = "Hindi"
	want.Backend = "raster"
	want.FontSize = 64
	want.Translator = Translator{Endpoint: "http://localhost:8080/translate", RetryMax: &zero, Timeout: 5 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// 未知 profile 回退到 config.yml
	cfg, err = Load("missing")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Language != "Tamil" {
		t.Errorf("expected fallback config, got language %q", cfg.Language)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"broken yaml", "language: [\n"},
		{"unknown backend", "backend: opengl\n"},
		{"negative size", "width: -1\n"},
		{"negative retry", "translator:\n  retryMax: -2\n"},
		{"empty font path", "fonts:\n  Display: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setConfigHome(t)
			if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(""); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestStateHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)
	stateHomePath = ""
	t.Cleanup(func() { stateHomePath = "" })
	if got, want := StateHomePath(), filepath.Join(tmpDir, "placard"); got != want {
		t.Errorf("StateHomePath = %q, want %q", got, want)
	}

	t.Setenv("XDG_DATA_HOME", tmpDir)
	dataHomePath = ""
	t.Cleanup(func() { dataHomePath = "" })
	if got, want := DataHomePath(), filepath.Join(tmpDir, "placard"); got != want {
		t.Errorf("DataHomePath = %q, want %q", got, want)
	}
}

func TestLoadFonts(t *testing.T) {
	dir := setConfigHome(t)
	abs := filepath.Join(t.TempDir(), "poster.ttf")
	y := "fonts:\n  Display: fonts/display.ttf\n  Poster: " + abs + "\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(y), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := map[string]string{
		"Display": filepath.Join(dir, "fonts", "display.ttf"),
		"Poster":  abs,
	}
	if diff := cmp.Diff(want, cfg.Fonts); diff != "" {
		t.Errorf("fonts mismatch (-want +got):\n%s", diff)
	}
}
