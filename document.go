package multiquadlet

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Section represents one unit definition demultiplexed out of a composite document: the output filename derived from its header line and the verbatim
// lines between that header and the next one (or the end of the document), blank lines included.
type Section struct {
	Filename string
	Lines    []string
}

// header matches the exact block delimiter shape: three dashes, a space, the filename, a space, three dashes.
var header = regexp.MustCompile(`^--- (.+) ---$`)

// Split demultiplexes the text of one composite document into its sections, in header order. Lines preceding the first header are discarded silently, and
// a document without any headers yields zero sections. A duplicate section name, or a name that would escape the output directory, fails the whole
// document with a *ParseError; the document argument only names the source in that error.
func Split(document, text string) ([]Section, error) {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var sections []Section
	seen := make(map[string]struct{})

	current := -1 // before the first header
	for number, line := range lines {
		match := header.FindStringSubmatch(line)
		if match == nil {
			if current >= 0 {
				sections[current].Lines = append(sections[current].Lines, line)
			}
			continue
		}

		name := match[1]
		if !flat(name) {
			return nil, &ParseError{Document: document, Line: number + 1, Name: name, Reason: "unsafe section name"}
		}

		if _, duplicate := seen[name]; duplicate {
			return nil, &ParseError{Document: document, Line: number + 1, Name: name, Reason: "duplicate section name"}
		}

		seen[name] = struct{}{}
		sections = append(sections, Section{Filename: name})
		current = len(sections) - 1
	}

	return sections, nil
}

// flat reports whether name is usable as a bare filename. Header names are used to construct write paths, so anything carrying path components must be
// rejected rather than allowed to escape the staging directory.
func flat(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	return filepath.Base(name) == name
}
