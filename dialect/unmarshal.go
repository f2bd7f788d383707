package dialect

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// UnmarshalXML walks the <message> children by hand so the position of an
// <extensions/> marker relative to sibling <field> elements is preserved;
// a plain struct-tag unmarshal would collect all <field>s into one slice
// and silently drop the marker's position.
func (m *XMLMessage) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m.Extensions = -1
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			v, err := strconv.ParseUint(a.Value, 10, 32)
			if err != nil {
				return fmt.Errorf("dialect: message id %q: %w", a.Value, err)
			}
			m.ID = uint32(v)
		case "name":
			m.Name = a.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "field":
				var f XMLField
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "type":
						f.Type = a.Value
					case "name":
						f.Name = a.Value
					case "enum":
						f.Enum = a.Value
					}
				}
				if err := d.Skip(); err != nil {
					return err
				}
				m.Fields = append(m.Fields, f)
			case "extensions":
				m.Extensions = len(m.Fields)
				if err := d.Skip(); err != nil {
					return err
				}
			case "description":
				var desc string
				if err := d.DecodeElement(&desc, &t); err != nil {
					return err
				}
				m.Description = desc
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}
