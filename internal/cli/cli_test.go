package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/badge"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     []string
	}{
		{"empty uses fallback", "", "json", []string{"json"}},
		{"single", "png", "json", []string{"png"}},
		{"multiple", "svg,png,pdf", "json", []string{"svg", "png", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input, tt.fallback)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"json", "svg", "png", "pdf"}); err != nil {
		t.Errorf("all valid formats rejected: %v", err)
	}
	if err := validateFormats([]string{"png", "docx"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"compose", "render", "batch", "artwork", "cache", "serve", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ada Lovelace", "ada-lovelace"},
		{"  J.  Robert  Oppenheimer ", "j-robert-oppenheimer"},
		{"Zürich", "z-rich"},
		{"---", "badge"},
		{"", "badge"},
	}

	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAttendeeLabel(t *testing.T) {
	withID := &badge.Attendee{ID: "reg-0042", Name: "Ada Lovelace"}
	if got := attendeeLabel(withID); got != "reg-0042" {
		t.Errorf("attendeeLabel = %q, want ID", got)
	}

	noID := &badge.Attendee{Name: "Ada Lovelace"}
	if got := attendeeLabel(noID); got != "ada-lovelace" {
		t.Errorf("attendeeLabel = %q, want name slug", got)
	}
}

func TestArtifactPath(t *testing.T) {
	a := &badge.Attendee{ID: "reg-7"}
	if got := artifactPath("out", a, "svg"); got != "out/reg-7.svg" {
		t.Errorf("artifactPath = %q", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "badges/reg-7.json", "badges/reg-7"},
		{"strip format extension", "proof.png", "reg-7.json", "proof"},
		{"keep foreign extension", "proof.out", "reg-7.json", "proof.out"},
		{"plain base", "proof", "reg-7.json", "proof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}
