package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadCachesByPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "quad.ply", []byte(asciiQuadPLY))
	l := NewLoader()

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "quad", first.Name())
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Models(), 1)

	l.Evict(path)
	assert.Nil(t, l.Get(path))
}

func TestLoadSniffsContentWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	plyPath := writeFile(t, dir, "bunny.mesh", []byte(asciiQuadPLY))
	glbPath := writeFile(t, dir, "tri.bin", buildGLB(t, triangleJSON("", false), triangleBuffer(t)))

	l := NewLoader()
	m, err := l.Load(plyPath)
	require.NoError(t, err)
	assert.Len(t, m.Mesh().Vertices, 4)

	m, err = l.Load(glbPath)
	require.NoError(t, err)
	assert.Len(t, m.Mesh().Vertices, 3)
}

func TestLoadErrorsAreTyped(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "notes.txt", []byte("hello"))
	broken := writeFile(t, dir, "broken.ply", []byte("ply\nformat ascii 1.0\n"))
	missing := filepath.Join(dir, "missing.ply")

	l := NewLoader()
	tests := []struct {
		path string
		want error
	}{
		{unknown, ErrUnsupportedFormat},
		{broken, ErrMalformed},
		{missing, os.ErrNotExist},
	}
	for _, tt := range tests {
		_, err := l.Load(tt.path)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr), "path %s", tt.path)
		assert.Equal(t, tt.path, loadErr.Path)
		assert.ErrorIs(t, err, tt.want)
	}
	assert.Empty(t, l.Models())
}

func TestLoadReaderUnknownBackend(t *testing.T) {
	_, err := NewLoader().LoadReader("x", strings.NewReader(""), BackendType(42))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPreloadJoinsErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "quad.ply", []byte(asciiQuadPLY))
	glb := writeFile(t, dir, "tri.glb", buildGLB(t, triangleJSON("", false), triangleBuffer(t)))
	bad := writeFile(t, dir, "bad.ply", []byte("nope"))

	l := NewLoader(WithWorkers(2))
	err := l.Preload(good, glb, bad)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, bad, loadErr.Path)
	assert.NotNil(t, l.Get(good))
	assert.NotNil(t, l.Get(glb))
	assert.Nil(t, l.Get(bad))

	assert.NoError(t, l.Preload())
}

func TestWithModelPrepopulatesCache(t *testing.T) {
	sphere := model.NewModel(model.NewSphere(4))
	l := NewLoader(WithModel("sphere", sphere))
	assert.Same(t, sphere, l.Get("sphere"))
}

func TestDecodeTextureFlipsRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeTexture(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Pixels[0:4], "bottom row first")
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[8:12])
}

func TestLoadTextureErrors(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "ground.png", []byte("not an image at all"))

	_, err := LoadTexture(text)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadTexture(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
