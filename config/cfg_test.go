package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koreader/crengine-sub001/config"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg, err := config.DefaultEngineConfig()
	if err != nil {
		t.Fatalf("DefaultEngineConfig() error = %v", err)
	}
	if cfg.RenderDPI != 96 {
		t.Errorf("RenderDPI = %d, want 96", cfg.RenderDPI)
	}
	if cfg.RootFontSizePx != 16 {
		t.Errorf("RootFontSizePx = %v, want 16", cfg.RootFontSizePx)
	}
	if !cfg.Hyphenation.Enabled {
		t.Error("Hyphenation.Enabled = false, want true")
	}
	if cfg.Hyphenation.DefaultDictionary != "en" {
		t.Errorf("DefaultDictionary = %q, want \"en\"", cfg.Hyphenation.DefaultDictionary)
	}
}

func TestLoadConfiguration_EmptyPathUsesDefault(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration(\"\") error = %v", err)
	}
	want, _ := config.DefaultEngineConfig()
	if cfg.RenderDPI != want.RenderDPI {
		t.Errorf("RenderDPI = %d, want %d", cfg.RenderDPI, want.RenderDPI)
	}
}

func TestLoadConfiguration_FromFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "custom.yaml")
	body := `
render_dpi: 144
scale_font_with_dpi: false
root_font_size_px: 20
embedded_langs_enabled: false
hyphenation:
  enabled: false
  soft_hyphens_only: false
  force_algorithmic: false
  trust_soft_hyphens: false
  left_hyphen_min: 3
  right_hyphen_min: 3
  default_dictionary: de
block_rendering_flags: 7
logging:
  file:
    level: none
  console:
    level: none
`
	if err := os.WriteFile(fname, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfiguration(fname)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.RenderDPI != 144 {
		t.Errorf("RenderDPI = %d, want 144", cfg.RenderDPI)
	}
	if cfg.Hyphenation.DefaultDictionary != "de" {
		t.Errorf("DefaultDictionary = %q, want \"de\"", cfg.Hyphenation.DefaultDictionary)
	}
	if cfg.BlockRendering != 7 {
		t.Errorf("BlockRendering = %d, want 7", cfg.BlockRendering)
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := config.LoadConfiguration("/no/such/file.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadConfiguration_UnknownField(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(fname, []byte("not_a_real_field: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadConfiguration(fname); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
}

func TestLoadConfiguration_RejectsValidationFailure(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "invalid.yaml")
	body := `
render_dpi: 96
scale_font_with_dpi: true
root_font_size_px: 0
embedded_langs_enabled: true
hyphenation:
  enabled: true
  left_hyphen_min: 2
  right_hyphen_min: 2
block_rendering_flags: 0
logging:
  file:
    level: none
  console:
    level: normal
`
	if err := os.WriteFile(fname, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadConfiguration(fname); err == nil {
		t.Error("expected a validation error for root_font_size_px: 0 (validate:\"gt=0\"), got nil")
	}
}

func TestPrepare(t *testing.T) {
	data, err := config.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if string(data) != string(config.ConfigTmpl) {
		t.Error("Prepare() did not return the embedded template verbatim")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := config.DefaultEngineConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.RenderDPI = 200

	data, err := config.Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	reloaded, err := config.LoadEngineConfig(data)
	if err != nil {
		t.Fatalf("LoadEngineConfig(Dump()) error = %v", err)
	}
	if reloaded.RenderDPI != 200 {
		t.Errorf("round-tripped RenderDPI = %d, want 200", reloaded.RenderDPI)
	}
}
