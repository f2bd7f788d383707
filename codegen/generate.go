package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/windward-avionics/mavgo/dialect"
)

// Options controls Generate's behavior, mirroring the CLI flags in §6.
type Options struct {
	// FormatGeneratedCode runs the output through go/format (Render
	// always does this; the option exists so the CLI can still surface
	// it as a documented, independently toggleable flag per the
	// generator's external interface).
	FormatGeneratedCode bool
	// EmitBuildMessages reports one diagnostic line per generated file
	// through Log (cmd/mavgen writes it to stdout), the Go-native analogue
	// of the reference generator's build-message flag.
	EmitBuildMessages bool
	Log               func(format string, args ...any)
}

// Generate loads every *.xml file directly under definitionsDir (plus
// whatever they transitively <include>), and writes one generated Go
// package per file into destDir/<pkg>/<pkg>.go, where <pkg> is the file's
// basename passed through sanitizePackageName. It returns the list of
// package directories written.
func Generate(definitionsDir, destDir string, opts Options) ([]string, error) {
	entries, err := os.ReadDir(definitionsDir)
	if err != nil {
		return nil, fmt.Errorf("codegen: reading %s: %w", definitionsDir, err)
	}

	var written []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".xml") {
			continue
		}
		base := strings.TrimSuffix(ent.Name(), ".xml")
		pkgName := sanitizePackageName(base)

		src := filepath.Join(definitionsDir, ent.Name())
		d, err := dialect.Load(src)
		if err != nil {
			return written, fmt.Errorf("codegen: loading %s: %w", src, err)
		}

		pkg, err := BuildPackage(pkgName, d)
		if err != nil {
			return written, fmt.Errorf("codegen: building %s: %w", src, err)
		}

		code, err := Render(pkg)
		if err != nil {
			return written, fmt.Errorf("codegen: rendering %s: %w", src, err)
		}

		outDir := filepath.Join(destDir, pkgName)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return written, fmt.Errorf("codegen: creating %s: %w", outDir, err)
		}
		outFile := filepath.Join(outDir, pkgName+".go")
		if err := os.WriteFile(outFile, code, 0o644); err != nil {
			return written, fmt.Errorf("codegen: writing %s: %w", outFile, err)
		}

		if opts.EmitBuildMessages && opts.Log != nil {
			opts.Log("generated %s: %d messages, %d enums", outFile, len(pkg.Messages), len(pkg.Enums))
		}
		written = append(written, outDir)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("codegen: no .xml definitions found in %s", definitionsDir)
	}
	return written, nil
}

// sanitizePackageName lowercases and replaces anything that is not a valid
// unexported Go identifier character with '_', so "common" stays "common"
// and "ArduPilotMega" becomes "ardupilotmega".
func sanitizePackageName(base string) string {
	base = strings.ToLower(base)
	var b strings.Builder
	for i, r := range base {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "dialect"
	}
	return name
}
