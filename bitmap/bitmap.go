/*
Package bitmap implements an encoder for the 8-bit indexed BMP covers read by
the Pico Launcher.

The launcher parses the file directly rather than through a general purpose
BMP decoder so the layout is fixed: a 14 byte file header, a 40 byte
BITMAPINFOHEADER, a colour table of exactly 256 BGRX entries and finally one
palette index per pixel with rows stored bottom-up, each padded with zeroes to
a multiple of four bytes. All values are little-endian.
*/
package bitmap

const (
	fileHeaderLen  = 14
	infoHeaderLen  = 40
	paletteEntries = 256
	paletteLen     = paletteEntries * 4
	pixelOffset    = fileHeaderLen + infoHeaderLen + paletteLen
	bitsPerPixel   = 8
)

// RowStride returns the number of bytes used to store one row of an image
// width pixels wide, including padding.
func RowStride(width int) int {
	return width + (4-width%4)%4
}

// FileSize returns the size in bytes of an encoded image.
func FileSize(width, height int) int {
	return pixelOffset + RowStride(width)*height
}
