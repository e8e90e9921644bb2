package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// FileStore keeps records as JSON files under a directory, one subdirectory
// per event. It serves single-node deployments and tests.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// PutEvent stores an event record.
func (s *FileStore) PutEvent(ctx context.Context, ev *badge.Event) error {
	if ev.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "event id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.eventDir(ev.ID), 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.eventDir(ev.ID), "event.json"), ev)
}

// GetEvent loads an event record.
func (s *FileStore) GetEvent(ctx context.Context, id string) (*badge.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ev badge.Event
	if err := readJSON(filepath.Join(s.eventDir(id), "event.json"), &ev); err != nil {
		if os.IsNotExist(err) {
			return nil, notFound("event", id)
		}
		return nil, err
	}
	return &ev, nil
}

// PutAttendee stores an attendee record under an event.
func (s *FileStore) PutAttendee(ctx context.Context, eventID string, a *badge.Attendee) error {
	if a.ID == "" {
		return errors.New(errors.ErrCodeInvalidRecord, "attendee id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.eventDir(eventID), "attendees")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, a.ID+".json"), a)
}

// GetAttendee loads one attendee record.
func (s *FileStore) GetAttendee(ctx context.Context, eventID, id string) (*badge.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var a badge.Attendee
	path := filepath.Join(s.eventDir(eventID), "attendees", id+".json")
	if err := readJSON(path, &a); err != nil {
		if os.IsNotExist(err) {
			return nil, notFound("attendee", id)
		}
		return nil, err
	}
	return &a, nil
}

// ListAttendees loads every attendee of an event, sorted by ID.
func (s *FileStore) ListAttendees(ctx context.Context, eventID string) ([]badge.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.eventDir(eventID), "attendees")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []badge.Attendee
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		var a badge.Attendee
		if err := readJSON(filepath.Join(dir, entry.Name()), &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) eventDir(id string) string {
	return filepath.Join(s.dir, id)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

var _ Store = (*FileStore)(nil)
