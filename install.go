package multiquadlet

import "strings"

// Directives holds the reverse-dependency lists pulled from a unit's [Install] section. Each list is whitespace-tokenized, flattened across repeated
// key lines, and deduplicated while preserving first occurrence order, so materialization output is deterministic.
type Directives struct {
	WantedBy   []string
	RequiredBy []string
	UpheldBy   []string
}

// Empty reports whether the unit declared no reverse dependencies at all.
func (d Directives) Empty() bool {
	return len(d.WantedBy) == 0 && len(d.RequiredBy) == 0 && len(d.UpheldBy) == 0
}

// Resolve reads the WantedBy, RequiredBy and UpheldBy keys of the parsed unit's [Install] section. A missing section or key yields an empty list for that
// directive kind, never an error.
func Resolve(parsed Unit) Directives {
	install := parsed["Install"]

	return Directives{
		WantedBy:   tokenize(install["WantedBy"]),
		RequiredBy: tokenize(install["RequiredBy"]),
		UpheldBy:   tokenize(install["UpheldBy"]),
	}
}

// tokenize splits each value line on whitespace and flattens the result into one deduplicated, first-seen-ordered list of unit names.
func tokenize(values []string) []string {
	var names []string

	seen := make(map[string]struct{})
	for _, value := range values {
		for _, name := range strings.Fields(value) {
			if _, duplicate := seen[name]; duplicate {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}
