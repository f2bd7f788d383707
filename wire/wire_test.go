package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU16RoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	require.NoError(t, WriteU16(buf, 0xBEEF))
	v, err := ReadU16(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v)
}

func TestI24RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, MaxI24, MinI24, MaxI24 - 1, MinI24 + 1, 12345, -12345}
	for _, v := range cases {
		buf := make([]byte, 3)
		require.NoError(t, WriteI24(buf, v))
		got, err := ReadI24(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got, "round trip of %d", v)
	}
}

func TestI24RangeRejected(t *testing.T) {
	buf := make([]byte, 3)
	err := WriteI24(buf, MaxI24+1)
	assert.Error(t, err)
	err = WriteI24(buf, MinI24-1)
	assert.Error(t, err)
}

func TestI24SignExtension(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF}
	v, err := ReadI24(buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)

	buf2 := []byte{0x00, 0x00, 0x80}
	v2, err := ReadI24(buf2)
	require.NoError(t, err)
	assert.Equal(t, int32(MinI24), v2)
}

func TestReadPastEndFails(t *testing.T) {
	_, err := ReadU32([]byte{1, 2})
	require.Error(t, err)
}

func TestFloatRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, WriteF64(buf, 3.5))
	v, err := ReadF64(buf)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 1e-12)

	buf4 := make([]byte, 4)
	require.NoError(t, WriteF32(buf4, 1.25))
	v4, err := ReadF32(buf4)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, float64(v4), 1e-6)
}

func TestTrimTrailingZeros(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3}, TrimTrailingZeros([]byte{1, 2, 3, 0, 0}))
	assert.Equal(t, []byte{0}, TrimTrailingZeros([]byte{0, 0, 0}))
	assert.Equal(t, []byte{5}, TrimTrailingZeros([]byte{5}))
}
