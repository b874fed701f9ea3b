package cvpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRender_ProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(zerolog.Nop()).Render(BuildLayout(sampleStudent(), ""), &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRender_EmbedsPhoto(t *testing.T) {
	photo := writePNG(t, t.TempDir())

	var withPhoto, without bytes.Buffer
	renderer := NewRenderer(zerolog.Nop())
	require.NoError(t, renderer.Render(BuildLayout(sampleStudent(), photo), &withPhoto))
	require.NoError(t, renderer.Render(BuildLayout(sampleStudent(), ""), &without))

	assert.Greater(t, withPhoto.Len(), without.Len())
}

func TestRender_SkipsUnusablePhotos(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	renderer := NewRenderer(zerolog.Nop())
	for _, photo := range []string{filepath.Join(dir, "missing.png"), filepath.Join(dir, "cert.pdf"), corrupt} {
		var buf bytes.Buffer
		require.NoError(t, renderer.Render(BuildLayout(sampleStudent(), photo), &buf), photo)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}
}

func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestRender_KeepsTextOutsideLatin1(t *testing.T) {
	student := sampleStudent()
	student.Name = "Łukasz Wąsik 王"

	renderer := NewRenderer(zerolog.Nop())
	renderer.compress = false

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(BuildLayout(student, ""), &buf))

	assert.Contains(t, buf.String(), "/Encoding /Identity-H")
	assert.True(t, bytes.Contains(buf.Bytes(), utf16BE("Łukasz")))
	assert.True(t, bytes.Contains(buf.Bytes(), utf16BE("王")))
}

func TestNewRendererWithFont(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "custom.ttf")
	require.NoError(t, os.WriteFile(fontPath, defaultRegularFont, 0o644))

	renderer, err := NewRendererWithFont(zerolog.Nop(), fontPath, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(BuildLayout(sampleStudent(), ""), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	_, err = NewRendererWithFont(zerolog.Nop(), filepath.Join(dir, "missing.ttf"), "")
	assert.Error(t, err)
	_, err = NewRendererWithFont(zerolog.Nop(), fontPath, filepath.Join(dir, "missing-bold.ttf"))
	assert.Error(t, err)
}
