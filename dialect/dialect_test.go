package dialect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heartbeatXML = `<?xml version="1.0"?>
<mavlink>
  <enums>
    <enum name="MAV_TYPE">
      <entry value="0" name="MAV_TYPE_GENERIC"/>
      <entry value="1" name="MAV_TYPE_FIXED_WING"/>
    </enum>
  </enums>
  <messages>
    <message id="0" name="HEARTBEAT">
      <description>Heartbeat.</description>
      <field type="uint8_t" name="type" enum="MAV_TYPE"/>
      <field type="uint8_t" name="autopilot"/>
      <field type="uint8_t" name="base_mode"/>
      <field type="uint32_t" name="custom_mode"/>
      <field type="uint8_t" name="system_status"/>
      <field type="uint8_t_mavlink_version" name="mavlink_version"/>
    </message>
  </messages>
</mavlink>`

const extendedXML = `<?xml version="1.0"?>
<mavlink>
  <include>common.xml</include>
  <messages>
    <message id="1" name="SYS_STATUS">
      <description>System status.</description>
      <field type="uint32_t" name="onboard_control_sensors_present"/>
      <field type="int16_t" name="load"/>
      <extensions/>
      <field type="uint8_t" name="battery_remaining_extension"/>
    </message>
  </messages>
</mavlink>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "common.xml", heartbeatXML)

	d, err := Load(path)
	require.NoError(t, err)

	hb, ok := d.Messages[0]
	require.True(t, ok)
	assert.Equal(t, "HEARTBEAT", hb.Name)
	assert.Len(t, hb.Fields, 6)
	assert.Equal(t, -1, hb.Extensions)

	_, ok = d.Enums["MAV_TYPE"]
	assert.True(t, ok)
}

func TestExtensionsMarkerPosition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.xml", heartbeatXML)
	path := writeFile(t, dir, "extended.xml", extendedXML)

	d, err := Load(path)
	require.NoError(t, err)

	sysStatus, ok := d.Messages[1]
	require.True(t, ok)
	assert.Equal(t, 2, sysStatus.Extensions)
	assert.Len(t, sysStatus.Fields, 3)
}

func TestIncludeCycleIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xml", `<mavlink><include>b.xml</include></mavlink>`)
	bPath := writeFile(t, dir, "b.xml", `<mavlink><include>a.xml</include></mavlink>`)

	_, err := Load(bPath)
	require.Error(t, err)
}

func TestDescendantOverridesAncestorMessageID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dialectA.xml", `<mavlink><messages>
		<message id="0" name="HEARTBEAT_A"><description/><field type="uint8_t" name="x"/></message>
	</messages></mavlink>`)
	path := writeFile(t, dir, "combined.xml", `<mavlink>
		<include>dialectA.xml</include>
		<messages>
			<message id="0" name="HEARTBEAT_B"><description/><field type="uint8_t" name="y"/></message>
		</messages>
	</mavlink>`)

	// combined.xml includes dialectA.xml, so combined redefining id 0 is
	// a legitimate override (combined is the descendant), not a conflict.
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "HEARTBEAT_B", d.Messages[0].Name)
}

func TestUnrelatedSiblingsConflictingMessageIDIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dialectA.xml", `<mavlink><messages>
		<message id="7" name="FOO"><description/><field type="uint8_t" name="x"/></message>
	</messages></mavlink>`)
	writeFile(t, dir, "dialectB.xml", `<mavlink><messages>
		<message id="7" name="BAR"><description/><field type="uint8_t" name="y"/></message>
	</messages></mavlink>`)
	path := writeFile(t, dir, "combined.xml", `<mavlink>
		<include>dialectA.xml</include>
		<include>dialectB.xml</include>
	</mavlink>`)

	_, err := Load(path)
	require.Error(t, err)
}
