package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.CacheDir != "" || len(cfg.Fonts) != 0 {
		t.Errorf("missing config should load as zero value, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config path should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
cache_dir = "/srv/badge-cache"

[server]
addr = ":9090"
store = "mongo"
mongo_uri = "mongodb://localhost:27017"

[[fonts]]
family = "Inter"
weight = "bold"
path = "/fonts/Inter-Bold.ttf"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.CacheDir != "/srv/badge-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Store != "mongo" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Fonts) != 1 || cfg.Fonts[0].Family != "Inter" || cfg.Fonts[0].Weight != "bold" {
		t.Errorf("Fonts = %+v", cfg.Fonts)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("cache_dir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		input   string
		want    fonts.Weight
		wantErr bool
	}{
		{"", fonts.Regular, false},
		{"regular", fonts.Regular, false},
		{"medium", fonts.Medium, false},
		{"bold", fonts.Bold, false},
		{"heavy", "", true},
	}

	for _, tt := range tests {
		got, err := parseWeight(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWeight(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseWeight(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRegisterFontsMissingFile(t *testing.T) {
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Fonts: []FontConfig{{Family: "Ghost", Weight: "bold", Path: "/nonexistent.ttf"}}}
	if err := cfg.registerFonts(reg); err == nil {
		t.Error("expected error for missing font file")
	}
}
