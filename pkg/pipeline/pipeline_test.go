package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/cache"
)

func testEvent() *badge.Event {
	return &badge.Event{
		ID:          "ev-1",
		DisplayName: "GopherCon 2026",
		TemplateID:  "default",
		Tags: []badge.TagCategory{
			{Name: "topics", DisplayType: badge.DisplayStandard, Color: "#E07A5F"},
			{Name: "role", DisplayType: badge.DisplayMicro, Color: "#3D405B"},
		},
	}
}

func testAttendee() *badge.Attendee {
	return &badge.Attendee{
		ID:      "att-1",
		Name:    "Ada Lovelace",
		Title:   "Staff Engineer",
		Company: "Analytical Engines Ltd",
		Tags:    map[string]string{"topics": "AI", "role": "ORG"},
	}
}

func testRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, nil, log.New(io.Discard))
}

func TestExecuteProducesArtifacts(t *testing.T) {
	r := testRunner(t, nil)

	result, err := r.Execute(context.Background(), Options{
		Event:    testEvent(),
		Attendee: testAttendee(),
		Formats:  []string{FormatJSON, FormatSVG},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Layout == nil || result.Layout.Name.Text != "Ada Lovelace" {
		t.Errorf("layout = %+v, want composed name", result.Layout)
	}
	for _, format := range []string{FormatJSON, FormatSVG} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if result.RecordHash == "" {
		t.Error("missing record hash")
	}
}

func TestExecuteLayoutCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := testRunner(t, fc)
	opts := Options{Event: testEvent(), Attendee: testAttendee()}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run reported a cache hit")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run missed the layout cache")
	}
	if second.Layout.Name.Text != first.Layout.Name.Text {
		t.Error("cached layout differs from composed layout")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteValidation(t *testing.T) {
	r := testRunner(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
	}{
		{"missing event", Options{Attendee: testAttendee()}},
		{"missing attendee", Options{Event: testEvent()}},
		{"unsupported format", Options{
			Event: testEvent(), Attendee: testAttendee(), Formats: []string{"docx"},
		}},
		{"nameless attendee", Options{
			Event: testEvent(), Attendee: &badge.Attendee{ID: "x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(ctx, tt.opts); err == nil {
				t.Error("Execute() error = nil, want validation error")
			}
		})
	}
}

func TestComposeStandalone(t *testing.T) {
	r := testRunner(t, nil)

	l, err := r.Compose(Options{Event: testEvent(), Attendee: testAttendee()})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if l.TopTags == nil || len(l.TopTags.Tags) != 1 {
		t.Errorf("top tags = %+v, want the single standard tag", l.TopTags)
	}
	if l.Micro == nil || l.Micro.Text != "ORG" {
		t.Errorf("micro = %+v, want ORG", l.Micro)
	}
}

func TestDefaultFormatIsJSON(t *testing.T) {
	opts := Options{Event: testEvent(), Attendee: testAttendee()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("formats = %v, want [json]", opts.Formats)
	}
}
