package codegen

import (
	"strconv"

	"github.com/windward-avionics/mavgo/dialect"
)

// EnumPlan is a resolved enum or bitmask, ready for rendering: a Go
// integer type plus one constant per entry and, for bitmasks, no implied
// exhaustiveness (unknown bits must still round-trip).
type EnumPlan struct {
	Name      string // XML name, e.g. "MAV_TYPE"
	GoName    string
	Bitmask   bool
	Entries   []EnumEntryPlan
}

// EnumEntryPlan is one constant of an EnumPlan.
type EnumEntryPlan struct {
	Name   string
	GoName string
	Value  int64
}

// BuildEnumPlan resolves one dialect.XMLEnum. A bitmask classification
// comes only from the XML's own bitmask="true" attribute (§4.6): it is
// never inferred from the shape of the declared values, since a small
// enum whose values happen to look like flags is not necessarily a
// bitmask and the converse has caused real interoperability bugs when
// multi-bit combinations were silently dropped.
func BuildEnumPlan(e dialect.XMLEnum) (EnumPlan, error) {
	plan := EnumPlan{Name: e.Name, GoName: exportedName(e.Name), Bitmask: e.Bitmask}
	for _, entry := range e.Entries {
		v, err := strconv.ParseInt(entry.Value, 0, 64)
		if err != nil {
			return EnumPlan{}, err
		}
		plan.Entries = append(plan.Entries, EnumEntryPlan{
			Name:   entry.Name,
			GoName: enumConstName(entry.Name),
			Value:  v,
		})
	}
	return plan, nil
}

// enumConstName returns the entry's own exported spelling, e.g.
// MAV_TYPE_GENERIC -> MavTypeGeneric. The rendered constant prefixes it
// with the enum's Go name, so MAV_TYPE + MAV_TYPE_GENERIC becomes
// MavTypeMavTypeGeneric; the prefix is added even when the entry name
// already starts with the enum name.
func enumConstName(entryXMLName string) string {
	name := exportedName(entryXMLName)
	if name == "" {
		name = "Value"
	}
	// Exported Go identifiers cannot start with a digit.
	if name[0] >= '0' && name[0] <= '9' {
		name = "V" + name
	}
	return name
}
