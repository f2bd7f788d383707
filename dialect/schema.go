// Package dialect parses MAVLink XML dialect definitions (enums, bitmasks,
// messages, commands) and merges a file plus its transitive <include>s into
// one Dialect, ready for the codegen package to turn into Go source.
package dialect

import "encoding/xml"

// File is the direct unmarshalling target for one dialect XML document.
// It mirrors the grammar in §6: <mavlink> root, <include>*, <enums>,
// <messages>.
type File struct {
	XMLName  xml.Name     `xml:"mavlink"`
	Version  int          `xml:"version"`
	Dialect  int          `xml:"dialect"`
	Includes []string     `xml:"include"`
	Enums    []XMLEnum    `xml:"enums>enum"`
	Messages []XMLMessage `xml:"messages>message"`
}

// XMLEnum is one <enum> element. Bitmask is true when the XML marks the
// enum as a bitmask (bitmask="true"); the generator must honor this rather
// than inferring it from value shapes, because a small enum whose declared
// values all happen to look like flags is not necessarily a bitmask, and
// the converse (a genuine bitmask with a contiguous-looking value set) has
// historically been misclassified by naive heuristics.
type XMLEnum struct {
	Name        string       `xml:"name,attr"`
	Bitmask     bool         `xml:"bitmask,attr"`
	Description string       `xml:"description"`
	Entries     []XMLEnumEntry `xml:"entry"`
}

// XMLEnumEntry is one <entry> of an <enum>.
type XMLEnumEntry struct {
	Value       string `xml:"value,attr"`
	Name        string `xml:"name,attr"`
	Description string `xml:"description"`
}

// XMLMessage is one <message> element.
type XMLMessage struct {
	ID          uint32     `xml:"id,attr"`
	Name        string     `xml:"name,attr"`
	Description string     `xml:"description"`
	Fields      []XMLField `xml:"field"`
	// Extensions marks the position, among Fields in declaration order,
	// where an <extensions/> marker appeared; fields at or after this
	// index are extension fields. -1 means no marker: no extensions.
	Extensions int `xml:"-"`
}

// XMLField is one <field> element. Only the attributes the wire format
// and crc_extra computation need are modeled; print_format/units/display
// are dialect documentation metadata the codec does not consume.
type XMLField struct {
	Type string `xml:"type,attr"`
	Name string `xml:"name,attr"`
	Enum string `xml:"enum,attr"`
}

// The <extensions/> marker position cannot be expressed with encoding/xml's
// struct-tag model against an interleaved sibling sequence, so
// XMLMessage.UnmarshalXML (unmarshal.go) walks a <message>'s token stream
// by hand to fill XMLMessage; its struct tags are not used for decoding.
