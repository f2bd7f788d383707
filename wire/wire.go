// Package wire implements little-endian primitive encode/decode for the
// MAVLink payload layout, including the 24-bit integers MAVLink uses for
// v2 message ids embedded in three-byte fields.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/windward-avionics/mavgo/mavlinkerr"
)

// MinI24 and MaxI24 bound the values a 24-bit signed field can hold.
const (
	MinI24 = -(1 << 23)
	MaxI24 = 1<<23 - 1
	MaxU24 = 1<<24 - 1
)

func need(buf []byte, n int) error {
	if len(buf) < n {
		return fmt.Errorf("wire: need %d bytes, have %d: %w", n, len(buf), mavlinkerr.ErrBufferUnderrun)
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit integer from buf[0].
func ReadU8(buf []byte) (uint8, error) {
	if err := need(buf, 1); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadI8 reads a signed 8-bit integer from buf[0].
func ReadI8(buf []byte) (int8, error) {
	v, err := ReadU8(buf)
	return int8(v), err
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func ReadU16(buf []byte) (uint16, error) {
	if err := need(buf, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func ReadI16(buf []byte) (int16, error) {
	v, err := ReadU16(buf)
	return int16(v), err
}

// ReadU24 reads a little-endian unsigned 24-bit integer from the first
// three bytes of buf.
func ReadU24(buf []byte) (uint32, error) {
	if err := need(buf, 3); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16, nil
}

// ReadI24 reads a little-endian signed 24-bit integer, sign-extending bit
// 23 into the returned int32.
func ReadI24(buf []byte) (int32, error) {
	u, err := ReadU24(buf)
	if err != nil {
		return 0, err
	}
	if u&0x800000 != 0 {
		return int32(u) - (1 << 24), nil
	}
	return int32(u), nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func ReadU32(buf []byte) (uint32, error) {
	if err := need(buf, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func ReadI32(buf []byte) (int32, error) {
	v, err := ReadU32(buf)
	return int32(v), err
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func ReadU64(buf []byte) (uint64, error) {
	if err := need(buf, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadI64 reads a little-endian signed 64-bit integer.
func ReadI64(buf []byte) (int64, error) {
	v, err := ReadU64(buf)
	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func ReadF32(buf []byte) (float32, error) {
	v, err := ReadU32(buf)
	return math.Float32frombits(v), err
}

// ReadF64 reads a little-endian IEEE-754 double-precision float.
func ReadF64(buf []byte) (float64, error) {
	v, err := ReadU64(buf)
	return math.Float64frombits(v), err
}

// WriteU8 writes v to buf[0].
func WriteU8(buf []byte, v uint8) error {
	if err := need(buf, 1); err != nil {
		return err
	}
	buf[0] = v
	return nil
}

// WriteI8 writes v to buf[0].
func WriteI8(buf []byte, v int8) error {
	return WriteU8(buf, uint8(v))
}

// WriteU16 writes v little-endian.
func WriteU16(buf []byte, v uint16) error {
	if err := need(buf, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf, v)
	return nil
}

// WriteI16 writes v little-endian.
func WriteI16(buf []byte, v int16) error {
	return WriteU16(buf, uint16(v))
}

// WriteU24 writes the low 24 bits of v little-endian. v above MaxU24 is a
// programming error in the generated code (field widths are fixed at
// codegen time) and is masked rather than rejected.
func WriteU24(buf []byte, v uint32) error {
	if err := need(buf, 3); err != nil {
		return err
	}
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	return nil
}

// WriteI24 writes v as a little-endian 24-bit two's-complement integer.
// v outside [MinI24, MaxI24] is a serialisation error, never a silent
// wrap, per the codec's range-checked-write contract.
func WriteI24(buf []byte, v int32) error {
	if v < MinI24 || v > MaxI24 {
		return fmt.Errorf("wire: i24 value %d out of range [%d,%d]: %w", v, MinI24, MaxI24, mavlinkerr.ErrSerialiseRange)
	}
	return WriteU24(buf, uint32(v)&MaxU24)
}

// WriteU32 writes v little-endian.
func WriteU32(buf []byte, v uint32) error {
	if err := need(buf, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf, v)
	return nil
}

// WriteI32 writes v little-endian.
func WriteI32(buf []byte, v int32) error {
	return WriteU32(buf, uint32(v))
}

// WriteU64 writes v little-endian.
func WriteU64(buf []byte, v uint64) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(buf, v)
	return nil
}

// WriteI64 writes v little-endian.
func WriteI64(buf []byte, v int64) error {
	return WriteU64(buf, uint64(v))
}

// WriteF32 writes v little-endian.
func WriteF32(buf []byte, v float32) error {
	return WriteU32(buf, math.Float32bits(v))
}

// WriteF64 writes v little-endian.
func WriteF64(buf []byte, v float64) error {
	return WriteU64(buf, math.Float64bits(v))
}

// TrimTrailingZeros returns the shortest prefix of payload with all
// trailing zero bytes removed, keeping at least one byte. Used by the v2
// frame writer; v1 never trims.
func TrimTrailingZeros(payload []byte) []byte {
	end := len(payload)
	for end > 1 && payload[end-1] == 0 {
		end--
	}
	return payload[:end]
}
