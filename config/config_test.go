package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Frame.RingSize)
	assert.Equal(t, VariantColumns, cfg.Scene.Variant)
	assert.Equal(t, float32(270), cfg.Camera.ThetaDegrees)
	assert.Equal(t, float32(36), cfg.Camera.PhiDegrees)
	assert.Equal(t, float32(100), cfg.Camera.Radius)
	assert.Equal(t, float32(5), cfg.Camera.MinRadius)
	assert.Equal(t, float32(150), cfg.Camera.MaxRadius)
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := []byte(`
[window]
title = "Shapes"

[frame]
ring_size = 2

[scene]
variant = "shapes"
wireframe_key = "f"
`)
	cfg, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "Shapes", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep their defaults")
	assert.Equal(t, 2, cfg.Frame.RingSize)
	assert.Equal(t, VariantShapes, cfg.Scene.Variant)
	assert.Equal(t, "f", cfg.Scene.WireframeKey)
	assert.Equal(t, float32(0.25), cfg.Camera.RotateDegreesPerPixel)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ring size":     "[frame]\nring_size = 0\n",
		"variant":       "[scene]\nvariant = \"voxels\"\n",
		"present mode":  "[renderer]\npresent_mode = \"mailbox\"\n",
		"msaa":          "[renderer]\nmsaa = 3\n",
		"radius bounds": "[camera]\nmin_radius = 10\nmax_radius = 5\n",
		"clip planes":   "[camera]\nnear = 10\nfar = 1\n",
		"wireframe key": "[scene]\nwireframe_key = \"F12\"\n",
		"unknown key":   "[camera]\nzoom = 3\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestParseRejectsMalformedToml(t *testing.T) {
	_, err := Parse([]byte("[window\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "castle.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"Before\"\n"), 0o644))

	var mu sync.Mutex
	var latest Config
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, Watch(ctx, path, func(c Config) {
		mu.Lock()
		latest = c
		mu.Unlock()
	}))

	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"After\"\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest.Window.Title == "After"
	}, 5*time.Second, 20*time.Millisecond)
}
