package bitmap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	// ErrTooManyColors is returned when a paletted image has a palette
	// with more than 256 entries.
	ErrTooManyColors = errors.New("bitmap: more than 256 colors")
	// ErrEmpty is returned when the image has no pixels.
	ErrEmpty = errors.New("bitmap: empty image")
)

type fileHeader struct {
	Magic    [2]byte
	Size     uint32
	Reserved uint32
	Offset   uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

type encoder struct {
	w *bufio.Writer
}

func (e *encoder) writeHeaders(width, height int) error {
	imageSize := RowStride(width) * height

	fh := fileHeader{
		Magic:  [2]byte{'B', 'M'},
		Size:   uint32(pixelOffset + imageSize),
		Offset: pixelOffset,
	}
	if err := binary.Write(e.w, binary.LittleEndian, &fh); err != nil {
		return err
	}

	// Positive height means the rows are stored bottom-up
	ih := infoHeader{
		Size:       infoHeaderLen,
		Width:      int32(width),
		Height:     int32(height),
		Planes:     1,
		BitCount:   bitsPerPixel,
		ImageSize:  uint32(imageSize),
		ColorsUsed: paletteEntries,
	}
	return binary.Write(e.w, binary.LittleEndian, &ih)
}

func (e *encoder) writePalette(p color.Palette) error {
	var tmp [paletteLen]byte
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		tmp[i*4+0] = byte(b >> 8)
		tmp[i*4+1] = byte(g >> 8)
		tmp[i*4+2] = byte(r >> 8)
	}
	// Unused entries are left as zero, i.e. black
	_, err := e.w.Write(tmp[:])
	return err
}

func (e *encoder) writePixels(m *image.Paletted) error {
	width, height := m.Rect.Dx(), m.Rect.Dy()
	row := make([]byte, RowStride(width))
	for y := height - 1; y >= 0; y-- {
		copy(row, m.Pix[y*m.Stride:y*m.Stride+width])
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encode(m *image.Paletted) error {
	if err := e.writeHeaders(m.Rect.Dx(), m.Rect.Dy()); err != nil {
		return err
	}
	if err := e.writePalette(m.Palette); err != nil {
		return err
	}
	if err := e.writePixels(m); err != nil {
		return err
	}
	return e.w.Flush()
}

// Encode writes the Image m to w as an 8-bit indexed BMP. A paletted image is
// written as-is, anything else is first reduced with Quantize.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return ErrEmpty
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		pm = Quantize(m)
	}
	if len(pm.Palette) > paletteEntries {
		return ErrTooManyColors
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: bufio.NewWriterSize(w, FileSize(b.Dx(), b.Dy()))}

	return e.encode(pm)
}
