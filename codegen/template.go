package codegen

const sourceTemplateText = `// Code generated by mavgen. DO NOT EDIT.

package {{.Name}}

import (
	"github.com/windward-avionics/mavgo/registry"
	"github.com/windward-avionics/mavgo/wire"
)

{{range .Enums}}{{$enum := .}}
// {{.GoName}} is generated from the {{.Name}} enum.{{if .Bitmask}} Values combine as bit flags;
// unknown bits must still round-trip unchanged.{{end}}
type {{.GoName}} uint32

const (
{{range .Entries}}	{{$enum.GoName}}{{.GoName}} {{$enum.GoName}} = {{.Value}}
{{end}})
{{end}}

{{range .Messages}}
// {{.GoName}} is the {{.Name}} message (id {{.ID}}).
{{if .Description}}// {{.Description}}
{{end}}type {{.GoName}} struct {
{{range .Fields}}	{{.GoName}} {{goType .}}
{{end}}}

const (
	{{.GoName}}ID          = uint32({{.ID}})
	{{.GoName}}CRCExtra    = uint8({{.CRCExtra}})
	{{.GoName}}WireLen     = {{.WireLen}}
	{{.GoName}}ExtendedLen = {{.ExtendedLen}}
)

// ID implements registry.MessageData.
func (m *{{.GoName}}) ID() uint32 { return {{.GoName}}ID }

// Name implements registry.MessageData.
func (m *{{.GoName}}) Name() string { return "{{.Name}}" }

// Parse implements registry.MessageData.
func (m *{{.GoName}}) Parse(payload []byte) error {
{{$off := 0}}{{range .Fields}}{{if eq .ArrayLen 1}}	{
		v, err := wire.Read{{wireFn .}}(payload[{{$off}}:])
		if err != nil {
			return err
		}
		m.{{.GoName}} = v
	}
{{$off = add $off (elemSize .)}}{{else}}	for i := 0; i < {{.ArrayLen}}; i++ {
		v, err := wire.Read{{wireFn .}}(payload[{{$off}}+i*{{elemSize .}}:])
		if err != nil {
			return err
		}
		m.{{.GoName}}[i] = v
	}
{{$off = add $off (mul (elemSize .) .ArrayLen)}}{{end}}{{end}}	return nil
}

// Serialise implements registry.MessageData.
func (m *{{.GoName}}) Serialise() ([]byte, error) {
	out := make([]byte, {{.GoName}}ExtendedLen)
{{$off := 0}}{{range .Fields}}{{if eq .ArrayLen 1}}	if err := wire.Write{{wireFn .}}(out[{{$off}}:], m.{{.GoName}}); err != nil {
		return nil, err
	}
{{$off = add $off (elemSize .)}}{{else}}	for i := 0; i < {{.ArrayLen}}; i++ {
		if err := wire.Write{{wireFn .}}(out[{{$off}}+i*{{elemSize .}}:], m.{{.GoName}}[i]); err != nil {
			return nil, err
		}
	}
{{$off = add $off (mul (elemSize .) .ArrayLen)}}{{end}}{{end}}	return out, nil
}

{{end}}

// RegisterAll adds every message this package declares to set.
func RegisterAll(set *registry.Set) {
{{range .Messages}}	set.Register({{.GoName}}ID, {{.GoName}}CRCExtra, {{.GoName}}WireLen, {{.GoName}}ExtendedLen, func() registry.MessageData { return &{{.GoName}}{} })
{{end}}}
`
