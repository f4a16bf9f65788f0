package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
)

// Sections and keys of the tracker settings file
const (
	SectionUser     = "user"
	SectionProjects = "projects"
	KeyProfile      = "profile"
	KeyOther        = "other"
	KeyHideAfter    = "hide_after"

	// ListSeparator joins manually tracked project paths
	ListSeparator = ", "
)

// TrackerSettings is a snapshot of what the user wants tracked
type TrackerSettings struct {
	Profile   string
	Other     []string
	HideAfter string // days; non-numeric disables hiding
}

// TrackerStore reads and writes the tracker settings file
type TrackerStore struct {
	mu   sync.Mutex
	path string
	file *ini.File
}

// LoadTrackerStore opens the settings file at path. A missing file yields an
// empty store that is created on the first Save.
func LoadTrackerStore(path string) (*TrackerStore, error) {
	s := &TrackerStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file location
func (s *TrackerStore) Path() string {
	return s.path
}

// Reload re-reads the file, dropping unsaved changes
func (s *TrackerStore) Reload() error {
	file, err := ini.Load(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		file = ini.Empty()
		err = nil
	}
	if err != nil {
		return fmt.Errorf("load settings %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
	return nil
}

// Get returns the current values
func (s *TrackerStore) Get() TrackerSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TrackerSettings{
		Profile:   strings.TrimSpace(s.file.Section(SectionUser).Key(KeyProfile).String()),
		Other:     SplitList(s.file.Section(SectionProjects).Key(KeyOther).String()),
		HideAfter: strings.TrimSpace(s.file.Section(SectionProjects).Key(KeyHideAfter).String()),
	}
}

// Set replaces the values in memory; call Save to persist them
func (s *TrackerStore) Set(settings TrackerSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.file.Section(SectionUser).Key(KeyProfile).SetValue(strings.TrimSpace(settings.Profile))
	s.file.Section(SectionProjects).Key(KeyOther).SetValue(JoinList(settings.Other))
	s.file.Section(SectionProjects).Key(KeyHideAfter).SetValue(strings.TrimSpace(settings.HideAfter))
}

// Save writes the file, creating its directory when needed
func (s *TrackerStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("save settings %s: %w", s.path, err)
	}
	return nil
}

// SplitList parses a comma separated list, dropping blanks
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList
func JoinList(items []string) string {
	return strings.Join(SplitList(strings.Join(items, ",")), ListSeparator)
}
