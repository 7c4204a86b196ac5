package multiquadlet

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Unit is the parsed model of one unit file: section name to key to the ordered sequence of values assigned to that key. Section names and keys are
// case-sensitive. A key repeated within a section accumulates its values in source order rather than overwriting, since systemd directives such as
// WantedBy= legitimately repeat across lines.
type Unit map[string]map[string][]string

// Parse extracts the section/key/value structure of an INI-like unit file. The parse is best-effort: comments, blank lines, assignments appearing before
// any section header, and lines without an = are skipped rather than failing the parse, so unit files carrying directives this package does not model
// still parse correctly.
func Parse(text string) (Unit, error) {
	file, e := ini.LoadSources(ini.LoadOptions{
		AllowShadows:            true,
		SkipUnrecognizableLines: true,
	}, []byte(text))

	if e != nil {
		return nil, fmt.Errorf("unable to parse unit file: %w", e)
	}

	parsed := make(Unit)
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue // assignments before the first bracketed header
		}

		keys := make(map[string][]string, len(section.Keys()))
		for _, key := range section.Keys() {
			keys[key.Name()] = append([]string(nil), key.ValueWithShadows()...)
		}

		parsed[section.Name()] = keys
	}

	return parsed, nil
}
