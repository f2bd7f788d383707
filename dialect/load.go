package dialect

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Dialect is the fully merged result of a file and its transitive
// <include>s: every enum and message keyed by name/id, ready for codegen.
type Dialect struct {
	Enums    map[string]XMLEnum
	Messages map[uint32]XMLMessage

	// definedIn tracks, for diagnostics and the strict-ancestor duplicate
	// rule, which absolute file path contributed the definition of each
	// message id currently held in Messages.
	definedIn map[uint32]string
}

// Load parses path and every file it <include>s, transitively, merging
// them into one Dialect. Includes are resolved relative to the directory
// of the file that names them. A cycle in the include graph is an error.
func Load(path string) (*Dialect, error) {
	d := &Dialect{
		Enums:     make(map[string]XMLEnum),
		Messages:  make(map[uint32]XMLMessage),
		definedIn: make(map[uint32]string),
	}
	if _, err := loadInto(d, path, nil); err != nil {
		return nil, err
	}
	return d, nil
}

// loadInto parses path, recurses into its <include>s, and merges the
// result into d. chain lists the absolute paths of files currently being
// loaded, root first, purely for cycle detection. It returns the set of
// every absolute path reachable by following path's own <include>s
// (path itself included): this is the "files path may legitimately
// override" set a sibling dialect, pulled in through some other include,
// is never a member of.
func loadInto(d *Dialect, path string, chain []string) (map[string]bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: resolving %s: %w", path, err)
	}
	for _, seen := range chain {
		if seen == abs {
			return nil, fmt.Errorf("dialect: include cycle at %s", abs)
		}
	}
	chain = append(chain, abs)

	f, err := parseFile(abs)
	if err != nil {
		return nil, err
	}

	reachable := map[string]bool{abs: true}
	dir := filepath.Dir(abs)
	for _, inc := range f.Includes {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(dir, incPath)
		}
		childReachable, err := loadInto(d, incPath, chain)
		if err != nil {
			return nil, err
		}
		for p := range childReachable {
			reachable[p] = true
		}
	}

	if err := mergeFile(d, abs, reachable, f); err != nil {
		return nil, err
	}
	return reachable, nil
}

func parseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: reading %s: %w", path, err)
	}
	var f File
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dialect: parsing %s: %w", path, err)
	}
	return &f, nil
}
