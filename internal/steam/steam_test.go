package steam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/gamerec/internal/domain/localconfig"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func TestExactlyOne(t *testing.T) {
	t.Run("single profile next to anonymous", func(t *testing.T) {
		ud := t.TempDir()
		mkdirs(t, ud, "anonymous", "1234")
		require.NoError(t, os.WriteFile(filepath.Join(ud, "stray.txt"), nil, 0o644))

		got, err := ExactlyOne().Resolve(ud)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(ud, "1234"), got)
	})

	t.Run("none", func(t *testing.T) {
		ud := t.TempDir()
		mkdirs(t, ud, "anonymous")

		_, err := ExactlyOne().Resolve(ud)
		assert.ErrorIs(t, err, ErrNoProfileFound)
	})

	t.Run("missing userdata", func(t *testing.T) {
		_, err := ExactlyOne().Resolve(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrNoProfileFound)
	})

	t.Run("ambiguous", func(t *testing.T) {
		ud := t.TempDir()
		mkdirs(t, ud, "1234", "5678")

		_, err := ExactlyOne().Resolve(ud)
		require.ErrorIs(t, err, ErrAmbiguousProfile)
		assert.Contains(t, err.Error(), "1234, 5678")
	})
}

func TestByID(t *testing.T) {
	ud := t.TempDir()
	mkdirs(t, ud, "1234", "5678", "anonymous")

	got, err := NewResolver("5678").Resolve(ud)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ud, "5678"), got)

	_, err = ByID("9999").Resolve(ud)
	assert.ErrorIs(t, err, ErrNoProfileFound)

	_, err = ByID("anonymous").Resolve(ud)
	assert.ErrorIs(t, err, ErrNoProfileFound)
}

func TestNewResolver_DefaultsToExactlyOne(t *testing.T) {
	assert.Equal(t, ExactlyOne(), NewResolver("  "))
}

func TestRecordingRoot(t *testing.T) {
	profile := t.TempDir()
	mkdirs(t, profile, "config")
	doc := `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		"/srv/recordings/"
	}
}
`
	require.NoError(t, os.WriteFile(LocalConfigPath(profile), []byte(doc), 0o644))

	root, err := RecordingRoot(profile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/srv/recordings"), root)
}

func TestRecordingRoot_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := RecordingRoot(t.TempDir())
		assert.ErrorIs(t, err, localconfig.ErrConfigParse)
	})

	t.Run("missing key", func(t *testing.T) {
		profile := t.TempDir()
		mkdirs(t, profile, "config")
		require.NoError(t, os.WriteFile(LocalConfigPath(profile), []byte(`"UserLocalConfigStore"
{
}
`), 0o644))

		_, err := RecordingRoot(profile)
		require.ErrorIs(t, err, localconfig.ErrConfigParse)
		assert.Contains(t, err.Error(), "localconfig.vdf")
	})
}
