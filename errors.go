package multiquadlet

import "fmt"

// ParseError reports a malformed or unsafe section header encountered while splitting a composite document.
type ParseError struct {
	Document string // name of the composite document being split
	Line     int    // 1-based line number of the offending header
	Name     string // filename derived from the header
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: section %q: %s", e.Document, e.Line, e.Name, e.Reason)
}

// CollisionError reports a staged output path already occupied by an unrelated, pre-existing entry. The document that triggered the collision has been
// rolled back by the time the error is returned.
type CollisionError struct {
	Document string // name of the composite document being staged
	Filename string // colliding section filename
	Path     string // occupied path in the staging directory
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("document %q: output file %q already exists at %s", e.Document, e.Filename, e.Path)
}

// MaterializeError reports a dependency-link path occupied by an entry that does not resolve to the unit being installed. Links created for the same unit
// before the failing directive remain in place.
type MaterializeError struct {
	Unit   string // filename of the unit being installed
	Kind   string // directive kind suffix: wants, requires or upholds
	Target string // dependent target unit the link belongs to
	Path   string // occupied link path
	Reason string
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("unit %q: %s link for %q at %s: %s", e.Unit, e.Kind, e.Target, e.Path, e.Reason)
}
