package transport

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windward-avionics/mavgo/mavlinkerr"
	"github.com/windward-avionics/mavgo/registry"
)

func TestDialRejectsAddressWithoutKind(t *testing.T) {
	_, err := Dial("nonsense", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialRejectsUnknownKind(t *testing.T) {
	_, err := Dial("quic:127.0.0.1:14550", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialRejectsTCPWithoutPort(t *testing.T) {
	_, err := Dial("tcpout:127.0.0.1", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialRejectsSerialWithoutBaud(t *testing.T) {
	_, err := Dial("serial:/dev/ttyUSB0", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialRejectsSerialWithNonNumericBaud(t *testing.T) {
	_, err := Dial("serial:/dev/ttyUSB0:fast", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialRejectsFileWithoutPath(t *testing.T) {
	_, err := Dial("file:", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}

func TestDialFileOpensExistingPath(t *testing.T) {
	path := t.TempDir() + "/capture.mav"
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	conn, err := Dial("file:"+path, registry.NewSet())
	require.NoError(t, err)
	defer conn.Close()
}

func TestDialPropagatesOptionValidationErrors(t *testing.T) {
	_, err := Dial("file:/nonexistent", registry.NewSet(), WithEmbeddedBuffers(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrConfig))
}

func TestDialRejectsUDPWithoutPort(t *testing.T) {
	_, err := Dial("udpin:0.0.0.0", registry.NewSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mavlinkerr.ErrBadAddress))
}
