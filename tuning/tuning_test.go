package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/softkey/drag"
	"github.com/npillmayer/softkey/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchPackages(t *testing.T) {
	tun := Default()
	require.NoError(t, tun.Validate())
	assert.Equal(t, gesture.DefaultConfig(), tun.GestureConfig())
	assert.Equal(t, drag.DefaultConfig(), tun.DragConfig())
}

func TestLoadOverridesSomeSettings(t *testing.T) {
	tun, err := Load(strings.NewReader(`
[gesture]
long_press_delay = "650ms"
dead_zone = 12.0

[drag]
sensitivity = "high"
`))
	require.NoError(t, err)
	g := tun.GestureConfig()
	assert.Equal(t, 650*time.Millisecond, g.LongPressDelay)
	assert.Equal(t, 12.0, g.DeadZone)
	assert.Equal(t, 100*time.Millisecond, g.RepeatDelay, "unset values keep their default")
	d := tun.DragConfig()
	assert.Equal(t, drag.High, d.Sensitivity)
	assert.Equal(t, 50.0, d.VerticalThreshold)
}

func TestNumericSensitivity(t *testing.T) {
	tun, err := Load(strings.NewReader("[drag]\nsensitivity = \"3.5\"\n"))
	require.NoError(t, err)
	assert.Equal(t, drag.Sensitivity(3.5), tun.DragConfig().Sensitivity)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	for _, doc := range []string{
		"[gesture]\nlong_press_delay = \"0s\"\n",
		"[gesture]\ndead_zone = -1.0\n",
		"[drag]\nsensitivity = \"extreme\"\n",
		"[drag]\ntangent_threshold = 1.5\n",
		"[drag]\nswipe_distance = 0.0\n",
		"[gesture]\nlongpress = \"1s\"\n",
	} {
		_, err := Load(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrInvalidTuning, doc)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(strings.NewReader("[gesture\n"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "decode TOML"))

	_, err = Load(strings.NewReader("[gesture]\nrepeat_delay = \"soon\"\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	tun, err := LoadFile(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), tun)

	path := filepath.Join(dir, "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gesture]\nrepeat_delay = \"50ms\"\n"), 0o644))
	tun, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, tun.GestureConfig().RepeatDelay)
}
