package fonts

import (
	"testing"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestMeasureBasics(t *testing.T) {
	r := newTestRegistry(t)

	w, err := r.Measure("Ada Lovelace", FamilyGo, Regular, 18)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if w <= 0 {
		t.Fatalf("Measure() = %v, want positive width", w)
	}

	// A 3"-wide badge name zone should hold a short name at 18pt.
	if w > 2.7 {
		t.Errorf("Measure(short name) = %.3fin, implausibly wide", w)
	}
}

func TestMeasureDeterministic(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Measure("Speaker", FamilyGo, Regular, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Measure("Speaker", FamilyGo, Regular, 8)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("repeated measurement differs: %v vs %v", a, b)
	}
}

func TestMeasureMonotonicInSize(t *testing.T) {
	r := newTestRegistry(t)

	small, _ := r.Measure("Anastasia Romanova", FamilyGo, Regular, 12)
	large, _ := r.Measure("Anastasia Romanova", FamilyGo, Regular, 18)
	if large <= small {
		t.Errorf("width at 18pt (%v) should exceed width at 12pt (%v)", large, small)
	}
}

func TestMeasureLongerTextWider(t *testing.T) {
	r := newTestRegistry(t)

	short, _ := r.Measure("Li Wei", FamilyGo, Regular, 18)
	long, _ := r.Measure("Anastasia Alexandrovna Romanova", FamilyGo, Regular, 18)
	if long <= short {
		t.Errorf("longer text should measure wider: %v vs %v", long, short)
	}
}

func TestMeasureEmptyString(t *testing.T) {
	r := newTestRegistry(t)

	w, err := r.Measure("", FamilyGo, Regular, 18)
	if err != nil {
		t.Fatalf("Measure(\"\") error = %v", err)
	}
	if w != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", w)
	}
}

func TestUnknownFont(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name   string
		family string
		weight Weight
	}{
		{"unknown family", "Comic Sans", Regular},
		{"unknown weight", FamilyGoBold, Bold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Measure("x", tt.family, tt.weight, 12)
			if err == nil {
				t.Fatal("expected UNKNOWN_FONT error")
			}
			if !errors.Is(err, errors.ErrCodeUnknownFont) {
				t.Errorf("error code = %v, want UNKNOWN_FONT", errors.GetCode(err))
			}
		})
	}
}

func TestDefaultFamiliesRegistered(t *testing.T) {
	r := newTestRegistry(t)

	for _, family := range []string{FamilyGo, FamilyGoMedium, FamilyGoBold} {
		if _, err := r.Measure("x", family, Regular, 10); err != nil {
			t.Errorf("default family %q not measurable: %v", family, err)
		}
	}
	for _, weight := range []Weight{Regular, Medium, Bold} {
		if _, err := r.Measure("x", FamilyGo, weight, 10); err != nil {
			t.Errorf("Go weight %q not measurable: %v", weight, err)
		}
	}
}

func TestFaceSharedWithMeasurement(t *testing.T) {
	r := newTestRegistry(t)

	f1, err := r.Face(FamilyGo, Regular, 18)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := r.Face(FamilyGo, Regular, 18)
	if err != nil {
		t.Fatal(err)
	}
	if f1 != f2 {
		t.Error("Face() should return the cached face for identical parameters")
	}
}
