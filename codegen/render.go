package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"text/template"

	"github.com/windward-avionics/mavgo/dialect"
)

// Package describes everything one generated Go source file needs to
// render: its package name, the enums and messages resolved from a
// Dialect, sorted for stable diffs.
type Package struct {
	Name     string
	Enums    []EnumPlan
	Messages []MessagePlan
}

// BuildPackage resolves every enum and message in d into a Package named
// pkgName, sorted by name/id so repeated generation from the same input
// is byte-for-byte reproducible.
func BuildPackage(pkgName string, d *dialect.Dialect) (Package, error) {
	pkg := Package{Name: pkgName}

	enumNames := make([]string, 0, len(d.Enums))
	for name := range d.Enums {
		enumNames = append(enumNames, name)
	}
	sort.Strings(enumNames)
	for _, name := range enumNames {
		ep, err := BuildEnumPlan(d.Enums[name])
		if err != nil {
			return Package{}, fmt.Errorf("codegen: enum %s: %w", name, err)
		}
		pkg.Enums = append(pkg.Enums, ep)
	}

	ids := make([]uint32, 0, len(d.Messages))
	for id := range d.Messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		mp, err := BuildPlan(d.Messages[id])
		if err != nil {
			return Package{}, fmt.Errorf("codegen: message %s: %w", d.Messages[id].Name, err)
		}
		pkg.Messages = append(pkg.Messages, mp)
	}

	return pkg, nil
}

// funcMap exposes the small amount of per-field rendering logic the
// template needs that isn't already precomputed on Field/MessagePlan.
var funcMap = template.FuncMap{
	"goType": func(f Field) (string, error) { return f.GoType() },
	"wireFn": func(f Field) (string, error) {
		wt, err := f.scalar()
		if err != nil {
			return "", err
		}
		return wt.wireFn, nil
	},
	"elemSize": func(f Field) (int, error) {
		wt, err := f.scalar()
		if err != nil {
			return 0, err
		}
		return wt.size, nil
	},
	"add": func(a, b int) int { return a + b },
	"mul": func(a, b int) int { return a * b },
}

var sourceTemplate = template.Must(template.New("dialect").Funcs(funcMap).Parse(sourceTemplateText))

// Render produces formatted Go source implementing pkg: one struct, one
// Parse/Serialise pair, and registry metadata per message, plus one typed
// constant block per enum/bitmask.
func Render(pkg Package) ([]byte, error) {
	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, pkg); err != nil {
		return nil, fmt.Errorf("codegen: rendering %s: %w", pkg.Name, err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting generated source for %s: %w", pkg.Name, err)
	}
	return formatted, nil
}
