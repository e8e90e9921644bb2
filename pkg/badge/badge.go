package badge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Tag display types.
const (
	DisplayStandard = "standard" // rounded pill
	DisplayMicro    = "micro"    // fixed-size circle, 2-4 characters
)

// Tag category value types.
const (
	TagSelect  = "select"
	TagWriteIn = "write_in"
)

// DefaultTagColor is used when a tag category does not declare a color.
const DefaultTagColor = "#E07A5F"

// =============================================================================
// Input Records
// =============================================================================

// TagCategory defines one tag axis for an event (e.g. "Role", "Years").
type TagCategory struct {
	Name        string   `json:"name" bson:"name" toml:"name"`
	Type        string   `json:"type" bson:"type" toml:"type"`
	Values      []string `json:"values,omitempty" bson:"values,omitempty" toml:"values"`
	Color       string   `json:"color" bson:"color" toml:"color"`
	DisplayType string   `json:"display_type,omitempty" bson:"display_type,omitempty" toml:"display_type"`
}

// IsMicro returns true if tags in this category render as circular micro badges.
func (c *TagCategory) IsMicro() bool { return c.DisplayType == DisplayMicro }

// EffectiveColor returns the category color, falling back to the default.
func (c *TagCategory) EffectiveColor() string {
	if c.Color != "" {
		return c.Color
	}
	return DefaultTagColor
}

// Event holds event metadata for badge generation.
type Event struct {
	ID          string        `json:"event_id" bson:"event_id"`
	DisplayName string        `json:"display_name" bson:"display_name"`
	Date        string        `json:"date,omitempty" bson:"date,omitempty"`
	Sponsor     string        `json:"sponsor,omitempty" bson:"sponsor,omitempty"`
	TemplateID  string        `json:"template_id" bson:"template_id"`
	Tags        []TagCategory `json:"tags,omitempty" bson:"tags,omitempty"`
}

// Category returns the tag category with the given name, or nil.
func (e *Event) Category(name string) *TagCategory {
	for i := range e.Tags {
		if e.Tags[i].Name == name {
			return &e.Tags[i]
		}
	}
	return nil
}

// Attendee is one registration record. Only Name is required.
type Attendee struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Title      string `json:"title,omitempty" bson:"title,omitempty"`
	Company    string `json:"company,omitempty" bson:"company,omitempty"`
	Location   string `json:"location,omitempty" bson:"location,omitempty"`
	Pronouns   string `json:"pronouns,omitempty" bson:"pronouns,omitempty"`
	ProfileURL string `json:"profile_url,omitempty" bson:"profile_url,omitempty"`

	// Raw interests feed prompt generation upstream; the normalized list is
	// what decides whether an interests illustration exists for this badge.
	Interests           []string `json:"interests,omitempty" bson:"interests,omitempty"`
	InterestsNormalized []string `json:"interests_normalized,omitempty" bson:"interests_normalized,omitempty"`

	// Tags maps category name to the attendee's value for that category.
	Tags map[string]string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// Validate checks the attendee record against intake rules.
func (a *Attendee) Validate() error {
	if err := errors.ValidateAttendeeName(a.Name); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// Resolved Record
// =============================================================================

// Resolved is an attendee record with all presence decisions made. Layout
// functions take this instead of re-probing optional fields.
type Resolved struct {
	Attendee Attendee
	Event    Event

	HasTitle     bool
	HasCompany   bool
	HasLocation  bool
	HasPronouns  bool
	HasQR        bool
	HasInterests bool

	// StandardTags are the attendee's non-micro tags in category order.
	StandardTags []ResolvedTag
	// Micro is the single micro tag, if any. Additional micro values are
	// folded into StandardTags rather than dropped.
	Micro *ResolvedTag
}

// ResolvedTag pairs a tag value with its category styling.
type ResolvedTag struct {
	Category string
	Value    string
	Color    string
}

// Resolve validates the record and computes every presence decision once.
// Micro tag values are length-checked here; a failing micro tag fails the
// whole record (INVALID_TAG), matching intake behavior.
func (a *Attendee) Resolve(ev *Event) (*Resolved, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	r := &Resolved{
		Attendee:     *a,
		HasTitle:     strings.TrimSpace(a.Title) != "",
		HasCompany:   strings.TrimSpace(a.Company) != "",
		HasLocation:  strings.TrimSpace(a.Location) != "",
		HasPronouns:  strings.TrimSpace(a.Pronouns) != "",
		HasQR:        strings.TrimSpace(a.ProfileURL) != "",
		HasInterests: len(a.InterestsNormalized) > 0 || len(a.Interests) > 0,
	}
	if ev != nil {
		r.Event = *ev
	}

	// Tag order follows the event's category declaration so badges within one
	// event are consistent, regardless of record map ordering.
	if ev != nil {
		for i := range ev.Tags {
			cat := &ev.Tags[i]
			value, ok := a.Tags[cat.Name]
			if !ok || strings.TrimSpace(value) == "" {
				continue
			}
			tag := ResolvedTag{Category: cat.Name, Value: value, Color: cat.EffectiveColor()}
			if cat.IsMicro() && r.Micro == nil {
				if err := errors.ValidateMicroTag(cat.Name, value); err != nil {
					return nil, err
				}
				r.Micro = &tag
				continue
			}
			r.StandardTags = append(r.StandardTags, tag)
		}
	}

	return r, nil
}

// =============================================================================
// Record File I/O
// =============================================================================

// ReadEventFile loads an event record from a JSON file.
func ReadEventFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event %s: %w", path, err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "parse event %s", path)
	}
	if ev.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "event %s missing event_id", path)
	}
	return &ev, nil
}

// ReadAttendeesFile loads attendee records from a JSON file. The file may
// contain either a single object or an array of objects.
func ReadAttendeesFile(path string) ([]Attendee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attendees %s: %w", path, err)
	}

	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool { return r == ' ' || r == '\n' || r == '\t' || r == '\r' })
	if strings.HasPrefix(trimmed, "{") {
		var one Attendee
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "parse attendee %s", path)
		}
		return []Attendee{one}, nil
	}

	var many []Attendee
	if err := json.Unmarshal(data, &many); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "parse attendees %s", path)
	}
	return many, nil
}
