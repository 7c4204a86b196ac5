package multiquadlet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dependency directory suffixes, in the fixed order Materialize processes them.
const (
	suffixWants    = "wants"
	suffixRequires = "requires"
	suffixUpholds  = "upholds"
)

// Record describes one reverse-dependency symlink created by Materialize.
type Record struct {
	Dir    string // dependency directory, e.g. multi-user.target.wants
	Name   string // link name, the installed unit's filename
	Target string // normalized path the link points at
}

// Path returns the full path of the link.
func (r Record) Path() string {
	return filepath.Join(r.Dir, r.Name)
}

// Materialize mirrors the unit's install directives on disk as <target>.<kind>/<unit> symlinks under root, each pointing at the unit file itself.
// Directive kinds are processed in the fixed order wants, requires, upholds, and target names within a kind in first-seen order; the returned records
// match that processing order. Re-creating a link that already resolves to the unit is a no-op, while any other occupant of a link path is a
// *MaterializeError: the remaining directives of this unit are abandoned, but links created earlier in the same call stay in place and are returned
// alongside the error.
func Materialize(directives Directives, unitPath, root string) ([]Record, error) {
	target, e := filepath.Abs(unitPath)
	if e != nil {
		return nil, fmt.Errorf("unable to resolve unit path %q: %w", unitPath, e)
	}

	name := filepath.Base(target)

	kinds := []struct {
		suffix  string
		targets []string
	}{
		{suffixWants, directives.WantedBy},
		{suffixRequires, directives.RequiredBy},
		{suffixUpholds, directives.UpheldBy},
	}

	var records []Record
	for _, kind := range kinds {
		for _, dependent := range kind.targets {
			dir := filepath.Join(root, dependent+"."+kind.suffix)
			if e := os.MkdirAll(dir, 0o755); e != nil {
				return records, fmt.Errorf("unable to create dependency directory %q: %w", dir, e)
			}

			link := filepath.Join(dir, name)

			info, e := os.Lstat(link)
			switch {
			case e == nil && info.Mode()&os.ModeSymlink != 0:
				existing, e := os.Readlink(link)
				if e != nil {
					return records, fmt.Errorf("unable to read symlink %q: %w", link, e)
				}

				if !filepath.IsAbs(existing) {
					existing = filepath.Join(dir, existing)
				}

				if filepath.Clean(existing) == target {
					continue // identical link already present
				}

				return records, &MaterializeError{Unit: name, Kind: kind.suffix, Target: dependent, Path: link, Reason: fmt.Sprintf("symlink points at %q", existing)}
			case e == nil:
				return records, &MaterializeError{Unit: name, Kind: kind.suffix, Target: dependent, Path: link, Reason: "path exists and is not a symlink"}
			case !errors.Is(e, fs.ErrNotExist):
				return records, fmt.Errorf("unable to stat %q: %w", link, e)
			}

			if e := os.Symlink(target, link); e != nil {
				return records, &MaterializeError{Unit: name, Kind: kind.suffix, Target: dependent, Path: link, Reason: e.Error()}
			}

			records = append(records, Record{Dir: dir, Name: name, Target: target})
		}
	}

	return records, nil
}
