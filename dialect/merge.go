package dialect

import (
	"fmt"
	"reflect"
)

// mergeFile folds one already-parsed file into d. reachable is the set of
// absolute paths abs pulls in via its own <include>s (abs itself
// included), used to distinguish a legitimate override (abs's own
// definition beats one contributed by a file abs itself includes) from a
// genuine conflict between two unrelated dialects that happen to share an
// includer.
func mergeFile(d *Dialect, abs string, reachable map[string]bool, f *File) error {
	for _, e := range f.Enums {
		mergeEnum(d, e)
	}

	for _, m := range f.Messages {
		existingPath, ok := d.definedIn[m.ID]
		if !ok {
			d.Messages[m.ID] = m
			d.definedIn[m.ID] = abs
			continue
		}
		if existingPath == abs {
			return fmt.Errorf("dialect: message id %d declared twice in %s", m.ID, abs)
		}
		if reachable[existingPath] {
			// abs includes (directly or transitively) the file that
			// first defined this id: abs's redefinition wins.
			d.Messages[m.ID] = m
			d.definedIn[m.ID] = abs
			continue
		}
		if reflect.DeepEqual(d.Messages[m.ID], m) {
			continue
		}
		return fmt.Errorf("dialect: message id %d defined differently by %s and %s", m.ID, existingPath, abs)
	}
	return nil
}

// mergeEnum folds one <enum> into d.Enums. An enum already present is
// extended: new entries are appended (duplicates by value ignored) and
// Bitmask is OR'd, since a dialect that includes another is allowed to add
// flag values to an enum the base dialect started.
func mergeEnum(d *Dialect, e XMLEnum) {
	existing, ok := d.Enums[e.Name]
	if !ok {
		d.Enums[e.Name] = e
		return
	}

	seen := make(map[string]bool, len(existing.Entries))
	for _, entry := range existing.Entries {
		seen[entry.Value] = true
	}
	for _, entry := range e.Entries {
		if !seen[entry.Value] {
			existing.Entries = append(existing.Entries, entry)
			seen[entry.Value] = true
		}
	}
	existing.Bitmask = existing.Bitmask || e.Bitmask
	d.Enums[e.Name] = existing
}
