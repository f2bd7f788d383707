package codegen

import (
	"github.com/windward-avionics/mavgo/crc"
)

// crcPrimitiveNames maps a field's resolved base type to the type name
// fed into the crc_extra digest. uint8_t_mavlink_version collapses to
// uint8_t here (but not in GoType) because the wire layout, not the XML
// spelling, is what peers must agree on.
var crcPrimitiveNames = map[string]string{
	"uint8_t_mavlink_version": "uint8_t",
}

func crcPrimitiveName(base string) string {
	if alt, ok := crcPrimitiveNames[base]; ok {
		return alt
	}
	return base
}

// crcExtra computes a message's crc_extra byte per §4.6: digest the
// message name, a space, then for each canonical (non-extension) field in
// wire order its primitive type name, a space, its field name, a space,
// and for array fields a trailing length byte. The result folds the
// 16-bit CRC to one byte via XOR of its two halves.
func crcExtra(name string, canonical []Field) uint8 {
	s := crc.New()
	s.Update([]byte(name))
	s.UpdateByte(' ')

	for _, f := range canonical {
		s.Update([]byte(crcPrimitiveName(f.BaseType)))
		s.UpdateByte(' ')
		s.Update([]byte(f.Name))
		s.UpdateByte(' ')
		if f.ArrayLen > 1 {
			s.UpdateByte(byte(f.ArrayLen))
		}
	}

	v := s.Digest()
	return uint8(v&0xFF) ^ uint8(v>>8)
}
