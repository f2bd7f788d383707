package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/windward-avionics/mavgo/dialect"
)

// MessagePlan is the fully resolved, wire-ordered description of one
// dialect message, ready to be rendered to Go source.
type MessagePlan struct {
	ID          uint32
	Name        string // XML name, e.g. "HEARTBEAT"
	GoName      string // exported Go identifier, e.g. "Heartbeat"
	Description string
	Fields      []Field // canonical fields wire-ordered, then extensions in declaration order
	WireLen     int     // sum of canonical (non-extension) field sizes
	ExtendedLen int     // WireLen + extension field sizes
	CRCExtra    uint8
}

// BuildPlan resolves one dialect.XMLMessage into a MessagePlan: fields are
// parsed, split at the <extensions/> marker, the canonical fields are
// sorted by wire-type size descending (stable on declaration order), and
// the crc_extra byte is computed over the sorted canonical (non-
// extension) field list per §4.6.
func BuildPlan(m dialect.XMLMessage) (MessagePlan, error) {
	fields := make([]Field, 0, len(m.Fields))
	for i, xf := range m.Fields {
		base, n, err := parseFieldType(xf.Type)
		if err != nil {
			return MessagePlan{}, fmt.Errorf("codegen: message %s field %s: %w", m.Name, xf.Name, err)
		}
		fields = append(fields, Field{
			Name:      xf.Name,
			GoName:    exportedName(xf.Name),
			XMLType:   xf.Type,
			BaseType:  base,
			ArrayLen:  n,
			Extension: m.Extensions >= 0 && i >= m.Extensions,
			EnumName:  xf.Enum,
			declOrder: i,
		})
	}

	canonical := make([]Field, 0, len(fields))
	extensions := make([]Field, 0)
	for _, f := range fields {
		if f.Extension {
			extensions = append(extensions, f)
		} else {
			canonical = append(canonical, f)
		}
	}

	sort.SliceStable(canonical, func(i, j int) bool {
		wi, _ := canonical[i].scalar()
		wj, _ := canonical[j].scalar()
		if wi.size != wj.size {
			return wi.size > wj.size
		}
		return canonical[i].declOrder < canonical[j].declOrder
	})

	// crc_extra is computed over the canonical fields in the same
	// size-descending wire order used for serialisation, not raw
	// declaration order, so peers with differently-ordered XML but an
	// equivalent wire layout still agree.
	extra := crcExtra(m.Name, canonical)

	wireLen := 0
	for _, f := range canonical {
		sz, err := f.WireSize()
		if err != nil {
			return MessagePlan{}, err
		}
		wireLen += sz
	}
	extLen := wireLen
	for _, f := range extensions {
		sz, err := f.WireSize()
		if err != nil {
			return MessagePlan{}, err
		}
		extLen += sz
	}

	return MessagePlan{
		ID:          m.ID,
		Name:        m.Name,
		GoName:      exportedName(m.Name),
		Description: strings.TrimSpace(m.Description),
		Fields:      append(canonical, extensions...),
		WireLen:     wireLen,
		ExtendedLen: extLen,
		CRCExtra:    extra,
	}, nil
}

// exportedName converts a SCREAMING_SNAKE_CASE XML message name into an
// exported CamelCase Go identifier, e.g. "SYS_STATUS" -> "SysStatus".
func exportedName(xmlName string) string {
	parts := strings.Split(strings.ToLower(xmlName), "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
