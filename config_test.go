package picocover

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Config{Root: root}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, NDS.Name, cfg.Platform.Name)
	assert.Equal(t, DefaultRegions, cfg.Regions)
	assert.Equal(t, NDS.URLTemplates, cfg.URLTemplates)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, filepath.Join(root, "_pico", "covers", "nds"), cfg.OutputDir)

	cfg, err = Config{Root: root, Platform: GBA, Workers: 3}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, GBA.URLTemplates, cfg.URLTemplates)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, filepath.Join(root, "_pico", "covers", "gba"), cfg.OutputDir)
}

func TestConfigRoot(t *testing.T) {
	_, err := Config{}.withDefaults()
	assert.Error(t, err)

	_, err = Config{Root: filepath.Join(t.TempDir(), "missing")}.withDefaults()
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = Config{Root: file}.withDefaults()
	assert.Error(t, err)
}

func TestPlatforms(t *testing.T) {
	p, err := PlatformByName("GBA")
	require.NoError(t, err)
	assert.Equal(t, GBA.Name, p.Name)

	_, err = PlatformByName("snes")
	assert.Error(t, err)

	assert.Equal(t, []string{"nds", "gba"}, Platforms())

	assert.True(t, NDS.matches("/roms/Game.nds"))
	assert.True(t, NDS.matches("/roms/Game.NdS"))
	assert.False(t, NDS.matches("/roms/Game.nds.txt"))
	assert.False(t, NDS.matches("/roms/nds"))
	assert.True(t, GBA.matches("game.GBA"))
}

func TestCollect(t *testing.T) {
	in := make(chan outcome)
	out := collect(in, 4, nil)

	for _, o := range []outcome{
		{resultSaved, "a"},
		{resultIgnored, "b"},
		{resultSkipped, "c"},
		{resultFailed, "d"},
	} {
		in <- o
	}
	close(in)

	s := <-out
	assert.Equal(t, Stats{
		Processed:    3,
		Saved:        1,
		Skipped:      1,
		Errored:      1,
		SkippedGames: []string{"c"},
		FailedGames:  []string{"d"},
	}, s)
	assert.Equal(t, "Processed=3 Saved=1 Skipped=1 Errors=1", s.String())
}
