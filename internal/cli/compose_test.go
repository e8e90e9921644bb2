package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

const testEventJSON = `{
  "event_id": "gophercon-2026",
  "display_name": "GopherCon 2026",
  "template_id": "standard-3x4",
  "tags": [
    {"name": "topic", "display_type": "standard", "color": "#3D405B"},
    {"name": "role", "display_type": "micro", "color": "#81B29A"}
  ]
}`

const testAttendeesJSON = `[
  {"id": "reg-1", "name": "Ada Lovelace", "title": "Engineer", "company": "Analytical Engines", "tags": {"topic": "Compilers", "role": "ORG"}},
  {"id": "reg-2", "name": "Cher"}
]`

func writeRecords(t *testing.T) (eventPath, attendeesPath string) {
	t.Helper()
	dir := t.TempDir()
	eventPath = filepath.Join(dir, "event.json")
	attendeesPath = filepath.Join(dir, "attendees.json")
	if err := os.WriteFile(eventPath, []byte(testEventJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(attendeesPath, []byte(testAttendeesJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return eventPath, attendeesPath
}

func testCLI(t *testing.T) (*CLI, context.Context) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	c.config = &Config{}
	return c, withLogger(context.Background(), c.Logger)
}

func TestRunCompose(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)
	out := t.TempDir()

	opts := composeOpts{output: out, formats: []string{pipeline.FormatJSON}}
	if err := c.runCompose(ctx, eventPath, attendeesPath, &opts); err != nil {
		t.Fatalf("runCompose() error: %v", err)
	}

	l, err := badge.ReadLayoutFile(filepath.Join(out, "reg-1.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Name.Text == "" {
		t.Error("layout should carry the fitted name")
	}
	if l.EventID != "gophercon-2026" {
		t.Errorf("EventID = %q", l.EventID)
	}

	if _, err := os.Stat(filepath.Join(out, "reg-2.json")); err != nil {
		t.Errorf("second attendee layout missing: %v", err)
	}
}

func TestRunComposeSingleAttendee(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)
	out := t.TempDir()

	opts := composeOpts{attendee: "reg-2", output: out, formats: []string{pipeline.FormatJSON}}
	if err := c.runCompose(ctx, eventPath, attendeesPath, &opts); err != nil {
		t.Fatalf("runCompose() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "reg-2.json")); err != nil {
		t.Errorf("filtered attendee layout missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "reg-1.json")); err == nil {
		t.Error("unfiltered attendee should not be composed")
	}
}

func TestRunComposeUnknownAttendee(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)

	opts := composeOpts{attendee: "ghost", output: t.TempDir(), formats: []string{pipeline.FormatJSON}}
	if err := c.runCompose(ctx, eventPath, attendeesPath, &opts); err == nil {
		t.Error("expected error for unknown attendee ID")
	}
}

func TestRunComposeSVG(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)
	out := t.TempDir()

	opts := composeOpts{attendee: "reg-1", output: out, formats: []string{pipeline.FormatSVG}}
	if err := c.runCompose(ctx, eventPath, attendeesPath, &opts); err != nil {
		t.Fatalf("runCompose() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "reg-1.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("SVG artifact is empty")
	}
}

func TestRunBatchPlain(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)
	out := t.TempDir()

	opts := batchOpts{
		output:    out,
		formats:   []string{pipeline.FormatJSON},
		parallel:  2,
		sheetCols: 3,
		noTUI:     true,
	}
	if err := c.runBatch(ctx, eventPath, attendeesPath, &opts); err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}

	for _, name := range []string{"reg-1.json", "reg-2.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("batch output %s missing: %v", name, err)
		}
	}
}

func TestRunBatchSheet(t *testing.T) {
	c, ctx := testCLI(t)
	eventPath, attendeesPath := writeRecords(t)
	out := t.TempDir()
	sheet := filepath.Join(out, "proof.png")

	opts := batchOpts{
		output:    out,
		formats:   []string{pipeline.FormatPNG},
		parallel:  2,
		sheet:     sheet,
		sheetCols: 2,
		noTUI:     true,
	}
	if err := c.runBatch(ctx, eventPath, attendeesPath, &opts); err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}

	info, err := os.Stat(sheet)
	if err != nil {
		t.Fatalf("contact sheet missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("contact sheet is empty")
	}
}

func TestLoadRecords(t *testing.T) {
	eventPath, attendeesPath := writeRecords(t)

	ev, attendees, err := loadRecords(eventPath, attendeesPath, "")
	if err != nil {
		t.Fatalf("loadRecords() error: %v", err)
	}
	if ev.ID != "gophercon-2026" {
		t.Errorf("event ID = %q", ev.ID)
	}
	if len(attendees) != 2 {
		t.Errorf("attendees = %d, want 2", len(attendees))
	}
}
