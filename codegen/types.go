// Package codegen turns a parsed dialect.Dialect into Go source: one
// struct and Parse/Serialise pair per message, wire-ordered per §4.6, with
// a computed (never hand-maintained) crc_extra per message.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// wireType describes one MAVLink scalar type: its Go spelling, its byte
// width (used both for wire-order sorting and for buffer sizing), and the
// wire.Read/Write function family it maps to.
type wireType struct {
	goType  string
	size    int
	wireFn  string // e.g. "U32" for wire.ReadU32/wire.WriteU32
	isFloat bool
}

var scalarTypes = map[string]wireType{
	"uint8_t":                {"uint8", 1, "U8", false},
	"uint8_t_mavlink_version": {"uint8", 1, "U8", false},
	"int8_t":                  {"int8", 1, "I8", false},
	"char":                    {"uint8", 1, "U8", false},
	"uint16_t":                {"uint16", 2, "U16", false},
	"int16_t":                 {"int16", 2, "I16", false},
	"uint32_t":                {"uint32", 4, "U32", false},
	"int32_t":                 {"int32", 4, "I32", false},
	"uint64_t":                {"uint64", 8, "U64", false},
	"int64_t":                 {"int64", 8, "I64", false},
	"float":                   {"float32", 4, "F32", true},
	"double":                  {"float64", 8, "F64", true},
}

// Field is one resolved message field: its scalar type, optional array
// length, and whether it lies after the message's <extensions/> marker.
type Field struct {
	Name      string
	GoName    string // exported Go struct field name
	XMLType   string // original type attribute, e.g. "uint16_t[4]"
	BaseType  string // scalar type name with any [N] suffix stripped
	ArrayLen  int    // 1 for a scalar field, N for a fixed array
	Extension bool
	EnumName  string // XML enum="" attribute, empty if none
	declOrder int
}

// scalar returns the resolved wireType for f's base type. The
// "_mavlink_version" suffix is only meaningful to crc_extra computation
// (§4.6), not to wire width, so it is looked up directly here.
func (f Field) scalar() (wireType, error) {
	wt, ok := scalarTypes[f.BaseType]
	if !ok {
		return wireType{}, fmt.Errorf("codegen: unknown field type %q", f.BaseType)
	}
	return wt, nil
}

// WireSize is the total byte width of f on the wire: element size times
// array length.
func (f Field) WireSize() (int, error) {
	wt, err := f.scalar()
	if err != nil {
		return 0, err
	}
	return wt.size * f.ArrayLen, nil
}

// GoType is the Go type f should be stored as: a scalar, or a fixed-size
// array for an XML [N] field.
func (f Field) GoType() (string, error) {
	wt, err := f.scalar()
	if err != nil {
		return "", err
	}
	if f.ArrayLen == 1 {
		return wt.goType, nil
	}
	return fmt.Sprintf("[%d]%s", f.ArrayLen, wt.goType), nil
}

// parseFieldType splits an XML type attribute like "uint16_t[4]" into its
// base scalar name and array length (1 if no suffix).
func parseFieldType(xmlType string) (base string, arrayLen int, err error) {
	open := strings.IndexByte(xmlType, '[')
	if open < 0 {
		return xmlType, 1, nil
	}
	if !strings.HasSuffix(xmlType, "]") {
		return "", 0, fmt.Errorf("codegen: malformed array type %q", xmlType)
	}
	base = xmlType[:open]
	n, err := strconv.Atoi(xmlType[open+1 : len(xmlType)-1])
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("codegen: malformed array length in %q", xmlType)
	}
	return base, n, nil
}
