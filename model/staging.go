package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"curie/backend"
)

// StagedFile is a file chosen by the user that is not yet bound to a sent
// message. ID is empty until the upload succeeds.
type StagedFile struct {
	Path     string
	ID       string
	Filename string
}

func (f StagedFile) Name() string {
	if f.Filename != "" {
		return f.Filename
	}
	return filepath.Base(f.Path)
}

// DescribeFiles summarises a selection the way the panel rows show it.
func DescribeFiles(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s + %d more", names[0], len(names)-1)
	}
}

// FileSlot is one file input of a panel. Files stay local until the panel's
// run action uploads them.
type FileSlot struct {
	Label     string
	EmptyText string
	Multiple  bool
	Allowed   []string
	files     []StagedFile
}

// Accepts reports whether path has one of the slot's extensions.
func (s *FileSlot) Accepts(path string) bool {
	if len(s.Allowed) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range s.Allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Add selects a file. Single-file slots replace their current selection;
// choosing the same path twice in a multi slot is ignored.
func (s *FileSlot) Add(path string) error {
	if !s.Accepts(path) {
		return fmt.Errorf("%s: expected %s", filepath.Base(path), strings.Join(s.Allowed, ", "))
	}
	if !s.Multiple {
		s.files = []StagedFile{{Path: path}}
		return nil
	}
	for _, f := range s.files {
		if f.Path == path {
			return nil
		}
	}
	s.files = append(s.files, StagedFile{Path: path})
	return nil
}

func (s FileSlot) clone() FileSlot {
	s.files = append([]StagedFile(nil), s.files...)
	return s
}

func (s *FileSlot) Clear() {
	s.files = nil
}

func (s *FileSlot) Len() int {
	return len(s.files)
}

func (s *FileSlot) Paths() []string {
	paths := make([]string, len(s.files))
	for i, f := range s.files {
		paths[i] = f.Path
	}
	return paths
}

func (s *FileSlot) Describe() string {
	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name()
	}
	if d := DescribeFiles(names); d != "" {
		return d
	}
	return s.EmptyText
}

// Stager holds composer attachments that were uploaded as soon as they were
// selected. The set rides along with the next composer message and is then
// cleared, whatever the outcome of that turn.
type Stager struct {
	files []StagedFile
}

func NewStager() *Stager {
	return &Stager{}
}

// Stage records uploaded files. paths and uploaded are matched by position.
func (s *Stager) Stage(paths []string, uploaded []backend.UploadedFile) {
	for i, up := range uploaded {
		f := StagedFile{ID: up.ID, Filename: up.Filename}
		if i < len(paths) {
			f.Path = paths[i]
		}
		s.files = append(s.files, f)
	}
}

func (s *Stager) Len() int {
	return len(s.files)
}

// Take returns the staged ids and empties the set.
func (s *Stager) Take() []string {
	if len(s.files) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.files))
	for _, f := range s.files {
		ids = append(ids, f.ID)
	}
	s.files = nil
	return ids
}

func (s *Stager) Describe() string {
	names := make([]string, len(s.files))
	for i, f := range s.files {
		names[i] = f.Name()
	}
	return DescribeFiles(names)
}
