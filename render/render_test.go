package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/bodgit/picocover/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var (
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	black = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

func solid(width, height int, c color.Color) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return m
}

func solidPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, solid(width, height, c)))
	return b.Bytes()
}

func near(t *testing.T, expected, actual color.Color, msgAndArgs ...interface{}) {
	t.Helper()
	r1, g1, b1, _ := expected.RGBA()
	r2, g2, b2, _ := actual.RGBA()
	for _, d := range [][2]uint32{{r1, r2}, {g1, g2}, {b1, b2}} {
		assert.InDelta(t, d[0]>>8, d[1]>>8, 8, msgAndArgs...)
	}
}

func decodeBMP(t *testing.T, b []byte) image.Image {
	t.Helper()
	m, err := bmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return m
}

func TestRenderCanvas(t *testing.T) {
	r := New(Canvas)

	b, err := r.Render(solidPNG(t, 10, 10, red))
	require.NoError(t, err)
	require.Len(t, b, bitmap.FileSize(DefaultWidth, DefaultHeight))
	assert.Equal(t, []byte("BM"), b[:2])

	m := decodeBMP(t, b)
	assert.Equal(t, image.Rect(0, 0, DefaultWidth, DefaultHeight), m.Bounds())

	near(t, red, m.At(0, 0))
	near(t, red, m.At(DefaultContentWidth-1, DefaultHeight-1))
	near(t, black, m.At(DefaultContentWidth, 0))
	near(t, black, m.At(DefaultWidth-1, DefaultHeight-1))
}

func TestRenderDirect(t *testing.T) {
	r := New(Direct)

	b, err := r.Render(solidPNG(t, 10, 10, red))
	require.NoError(t, err)

	m := decodeBMP(t, b)
	assert.Equal(t, image.Rect(0, 0, DefaultWidth, DefaultHeight), m.Bounds())
	near(t, red, m.At(0, 0))
	near(t, red, m.At(DefaultWidth-1, DefaultHeight-1))
}

func TestCompose(t *testing.T) {
	r := &Renderer{
		Policy:        Canvas,
		Width:         20,
		Height:        10,
		ContentWidth:  5,
		ContentHeight: 4,
		Background:    color.RGBA{0x00, 0x00, 0xff, 0xff},
	}

	canvas, err := r.Compose(solid(50, 50, red))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), canvas.Bounds())

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if x < 5 && y < 4 {
				near(t, red, canvas.At(x, y), "pixel %d,%d", x, y)
			} else {
				assert.Equal(t, r.Background, canvas.RGBAAt(x, y), "pixel %d,%d", x, y)
			}
		}
	}

	// The same renderer with the other policy fills the canvas
	r.Policy = Direct
	canvas, err = r.Compose(solid(50, 50, red))
	require.NoError(t, err)
	near(t, red, canvas.At(19, 9))
}

func TestRenderFormats(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(b, solid(32, 32, red), &jpeg.Options{Quality: 100}))

	out, err := New(Canvas).Render(b.Bytes())
	require.NoError(t, err)
	near(t, red, decodeBMP(t, out).At(50, 50))
}

func TestRenderErrors(t *testing.T) {
	_, err := New(Canvas).Render([]byte("not an image"))
	assert.True(t, errors.Is(err, ErrDecode), "got %v", err)

	_, err = New(Canvas).Render(nil)
	assert.True(t, errors.Is(err, ErrDecode), "got %v", err)

	tables := []struct {
		name string
		r    Renderer
	}{
		{"zero canvas", Renderer{Policy: Direct}},
		{"content wider than canvas", Renderer{Width: 10, Height: 10, ContentWidth: 11, ContentHeight: 10}},
		{"content taller than canvas", Renderer{Width: 10, Height: 10, ContentWidth: 10, ContentHeight: 11}},
		{"zero content", Renderer{Width: 10, Height: 10}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := table.r.RenderImage(solid(4, 4, red))
			assert.True(t, errors.Is(err, ErrSize), "got %v", err)
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := solidPNG(t, 7, 9, color.RGBA{0x12, 0x34, 0x56, 0xff})
	b1, err := New(Canvas).Render(src)
	require.NoError(t, err)
	b2, err := New(Canvas).Render(src)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "canvas", Canvas.String())
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "Policy(7)", Policy(7).String())
}
