/*
Package header extracts the four character game code from the header of a
handheld ROM image.

Both the Nintendo DS and the Game Boy Advance store the code as four ASCII
alphanumeric bytes at a fixed offset; only the offset differs between the two
layouts. The last character of the code conventionally identifies the region
the title was released in.
*/
package header

import (
	"errors"
	"io"
)

// Length is the size in bytes of a game code.
const Length = 4

var (
	// ErrTooShort is returned when the header is smaller than the layout
	// requires.
	ErrTooShort = errors.New("header: not enough header data")
	// ErrInvalid is returned when the game code contains anything other
	// than ASCII letters and digits.
	ErrInvalid = errors.New("header: invalid game code")
)

// Layout describes where the game code lives within a header.
type Layout struct {
	Name   string
	Offset int
}

// Size returns the minimum number of header bytes needed by l.
func (l Layout) Size() int {
	return l.Offset + Length
}

var (
	// NDS is the Nintendo DS cartridge header, code at 0x0C.
	NDS = Layout{Name: "nds", Offset: 0x0c}
	// GBA is the Game Boy Advance cartridge header, code at 0xAC.
	GBA = Layout{Name: "gba", Offset: 0xac}
)

// Identifier is a validated game code. The zero value is not a valid code.
type Identifier struct {
	code string
}

func isAlphanumeric(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z'
}

func validate(b []byte) error {
	if len(b) != Length {
		return ErrInvalid
	}
	for _, c := range b {
		if !isAlphanumeric(c) {
			return ErrInvalid
		}
	}
	return nil
}

// Parse returns the Identifier for s.
func Parse(s string) (Identifier, error) {
	if err := validate([]byte(s)); err != nil {
		return Identifier{}, err
	}
	return Identifier{code: s}, nil
}

// Extract returns the game code found in b according to layout l.
func Extract(b []byte, l Layout) (Identifier, error) {
	if len(b) < l.Size() {
		return Identifier{}, ErrTooShort
	}
	code := b[l.Offset:l.Size()]
	if err := validate(code); err != nil {
		return Identifier{}, err
	}
	return Identifier{code: string(code)}, nil
}

// Read reads enough of r to extract the game code according to layout l. A
// reader that runs out of data early yields ErrTooShort, any other read error
// is returned as-is.
func Read(r io.Reader, l Layout) (Identifier, error) {
	b := make([]byte, l.Size())
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Identifier{}, ErrTooShort
		}
		return Identifier{}, err
	}
	return Extract(b, l)
}

// String returns the game code.
func (id Identifier) String() string {
	return id.code
}

// IsZero reports whether id is the zero value.
func (id Identifier) IsZero() bool {
	return id.code == ""
}

// Region returns the last character of the code which is conventionally the
// region the title was released in, e.g. 'E' for America or 'J' for Japan.
// It is informational only.
func (id Identifier) Region() (byte, bool) {
	if id.code == "" {
		return 0, false
	}
	return id.code[len(id.code)-1], true
}
