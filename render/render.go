/*
Package render turns arbitrary cover art into the indexed bitmap stored on the
Pico Launcher SD card.

The source image is resized with a Lanczos filter to exact dimensions, aspect
ratio is not preserved. With the Canvas policy the result is placed in the
top-left corner of a larger canvas filled with a background colour, with the
Direct policy the image is resized to fill the whole output. The composed
image is then reduced to 256 colours and encoded.
*/
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/bodgit/picocover/bitmap"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/bmp" // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

// Policy controls how the resized image is placed on the output.
type Policy int

const (
	// Canvas resizes to the content size and composes onto the canvas.
	Canvas Policy = iota
	// Direct resizes to the canvas size.
	Direct
)

func (p Policy) String() string {
	switch p {
	case Canvas:
		return "canvas"
	case Direct:
		return "direct"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

const (
	// DefaultWidth and DefaultHeight are the size of a cover on the
	// launcher.
	DefaultWidth  = 128
	DefaultHeight = 96
	// DefaultContentWidth and DefaultContentHeight are the size of the
	// visible box art within the cover.
	DefaultContentWidth  = 106
	DefaultContentHeight = 96
)

var (
	// ErrDecode wraps any failure to decode the source image.
	ErrDecode = errors.New("render: unable to decode image")
	// ErrSize is returned for invalid canvas or content dimensions.
	ErrSize = errors.New("render: invalid dimensions")
)

// Renderer converts cover art into encoded bitmaps. A Renderer holds no
// per-call state and is safe for concurrent use.
type Renderer struct {
	Policy        Policy
	Width         int
	Height        int
	ContentWidth  int
	ContentHeight int
	Background    color.Color
}

// New returns a Renderer using the launcher's default dimensions and an
// opaque black background.
func New(policy Policy) *Renderer {
	return &Renderer{
		Policy:        policy,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		ContentWidth:  DefaultContentWidth,
		ContentHeight: DefaultContentHeight,
		Background:    color.RGBA{0, 0, 0, 0xff},
	}
}

func (r *Renderer) contentSize() (int, int, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, 0, ErrSize
	}
	if r.Policy == Direct {
		return r.Width, r.Height, nil
	}
	if r.ContentWidth <= 0 || r.ContentHeight <= 0 || r.ContentWidth > r.Width || r.ContentHeight > r.Height {
		return 0, 0, ErrSize
	}
	return r.ContentWidth, r.ContentHeight, nil
}

// Decode decodes b using any registered image format.
func Decode(b []byte) (image.Image, string, error) {
	m, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return m, format, nil
}

// Compose returns the RGBA canvas for m before quantization.
func (r *Renderer) Compose(m image.Image) (*image.RGBA, error) {
	cw, ch, err := r.contentSize()
	if err != nil {
		return nil, err
	}
	if m.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty source image", ErrSize)
	}

	g := gift.New(gift.Resize(cw, ch, gift.LanczosResampling))
	resized := image.NewRGBA(g.Bounds(m.Bounds()))
	g.Draw(resized, m)

	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	bg := r.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, cw, ch), resized, resized.Bounds().Min, draw.Src)

	return canvas, nil
}

// RenderImage converts an already decoded image into an encoded bitmap.
func (r *Renderer) RenderImage(m image.Image) ([]byte, error) {
	canvas, err := r.Compose(m)
	if err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	b.Grow(bitmap.FileSize(r.Width, r.Height))
	if err := bitmap.Encode(b, bitmap.Quantize(canvas)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Render decodes raw image bytes and converts them into an encoded bitmap.
func (r *Renderer) Render(b []byte) ([]byte, error) {
	m, _, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return r.RenderImage(m)
}
