package multiquadlet

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/go-systemd/v22/unit"
)

// passthrough matches single-unit files that are copied into the staging directory untouched, so composite documents can cross-reference them.
const passthrough = "*.{container,network,volume,pod,kube,image,build}"

// Stager writes demultiplexed sections into the staging directory consumed by the unit compiler. The directory is owned by the Stager for the duration of
// a run: Reset clears and recreates it, after which Stage and CopyPassthrough populate it.
type Stager struct {
	Dir    string
	Logger *slog.Logger
}

// Reset clears the staging directory and recreates it empty. Every run rebuilds the full tree from the current inputs rather than patching the previous
// output.
func (s *Stager) Reset() error {
	if e := os.RemoveAll(s.Dir); e != nil {
		return fmt.Errorf("unable to clear staging directory %q: %w", s.Dir, e)
	}

	if e := os.MkdirAll(s.Dir, 0o755); e != nil {
		return fmt.Errorf("unable to create staging directory %q: %w", s.Dir, e)
	}

	return nil
}

// Stage writes every section of one document into the staging directory, each prefixed with a provenance comment naming the source document. Staging a
// document is all-or-nothing: if a section's filename is already occupied -- by a passthrough file or by a section of an earlier document -- every file
// already written for this document is deleted before the *CollisionError is returned. Files belonging to other, already-completed documents are never
// touched.
func (s *Stager) Stage(document string, sections []Section) error {
	written := make([]string, 0, len(sections))

	for _, section := range sections {
		path := filepath.Join(s.Dir, section.Filename)

		if _, e := os.Lstat(path); e == nil {
			s.rollback(document, written)
			return &CollisionError{Document: document, Filename: section.Filename, Path: path}
		} else if !errors.Is(e, fs.ErrNotExist) {
			s.rollback(document, written)
			return fmt.Errorf("unable to stat %q: %w", path, e)
		}

		if e := os.WriteFile(path, render(document, section), 0o644); e != nil {
			s.rollback(document, written)
			return fmt.Errorf("unable to write section %q of document %q: %w", section.Filename, document, e)
		}

		written = append(written, path)
		s.lint(section)
	}

	return nil
}

// CopyPassthrough copies the verbatim single-unit files of the input directory into staging, byte for byte.
func (s *Stager) CopyPassthrough(input string) error {
	entries, e := os.ReadDir(input)
	if e != nil {
		return fmt.Errorf("unable to read input directory %q: %w", input, e)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, e := doublestar.Match(passthrough, entry.Name())
		if e != nil {
			return fmt.Errorf("unable to match %q: %w", entry.Name(), e)
		} else if !matched {
			continue
		}

		content, e := os.ReadFile(filepath.Join(input, entry.Name()))
		if e != nil {
			return fmt.Errorf("unable to read %q: %w", entry.Name(), e)
		}

		if e := os.WriteFile(filepath.Join(s.Dir, entry.Name()), content, 0o644); e != nil {
			return fmt.Errorf("unable to copy %q into staging: %w", entry.Name(), e)
		}
	}

	return nil
}

// render assembles the staged file content: the provenance header followed by the section's verbatim lines.
func render(document string, section Section) []byte {
	var builder strings.Builder

	builder.WriteString("# Automatically generated by multiquadlet-generator from ")
	builder.WriteString(document)
	builder.WriteByte('\n')
	builder.WriteString(strings.Join(section.Lines, "\n"))
	builder.WriteByte('\n')

	return []byte(builder.String())
}

// rollback removes the files written so far for the failing document.
func (s *Stager) rollback(document string, written []string) {
	for _, path := range written {
		if e := os.Remove(path); e != nil && s.Logger != nil {
			s.Logger.Warn("unable to roll back staged file", "document", document, "path", path, "error", e)
		}
	}
}

// lint feeds the section body through the systemd unit deserializer and logs sections it cannot make sense of. Purely advisory: section content is staged
// verbatim either way, and only the compiler decides what is valid.
func (s *Stager) lint(section Section) {
	if s.Logger == nil {
		return
	}

	if _, e := unit.Deserialize(strings.NewReader(strings.Join(section.Lines, "\n"))); e != nil {
		s.Logger.Debug("section does not deserialize as a unit file", "filename", section.Filename, "error", e)
	}
}
