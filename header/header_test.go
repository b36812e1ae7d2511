package header

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerWith(l Layout, code string) []byte {
	b := make([]byte, l.Size()+16)
	copy(b[l.Offset:], code)
	return b
}

func TestExtract(t *testing.T) {
	tables := []struct {
		name   string
		layout Layout
		b      []byte
		code   string
		err    error
	}{
		{"nds", NDS, headerWith(NDS, "NTRJ"), "NTRJ", nil},
		{"gba", GBA, headerWith(GBA, "AXVE"), "AXVE", nil},
		{"digits", NDS, headerWith(NDS, "A2B9"), "A2B9", nil},
		{"lowercase", GBA, headerWith(GBA, "abcd"), "abcd", nil},
		{"exact size", NDS, headerWith(NDS, "NTRE")[:NDS.Size()], "NTRE", nil},
		{"short", NDS, make([]byte, NDS.Size()-1), "", ErrTooShort},
		{"empty", GBA, nil, "", ErrTooShort},
		{"nds header read as gba", GBA, headerWith(NDS, "NTRJ")[:0x20], "", ErrTooShort},
		{"zeroes", NDS, make([]byte, 16), "", ErrInvalid},
		{"space", NDS, headerWith(NDS, "NT J"), "", ErrInvalid},
		{"punctuation", GBA, headerWith(GBA, "AX-E"), "", ErrInvalid},
		{"high bit", NDS, headerWith(NDS, "NTR\xc9"), "", ErrInvalid},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			id, err := Extract(table.b, table.layout)
			if table.err != nil {
				assert.True(t, errors.Is(err, table.err), "got %v", err)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.code, id.String())
		})
	}
}

func TestExtractEveryAlphanumeric(t *testing.T) {
	for c := 0; c < 256; c++ {
		b := headerWith(NDS, "NTR")
		b[NDS.Offset+3] = byte(c)

		id, err := Extract(b, NDS)
		if isAlphanumeric(byte(c)) {
			require.NoError(t, err, "byte %#02x", c)
			assert.Equal(t, "NTR"+string(rune(c)), id.String())
		} else {
			assert.Equal(t, ErrInvalid, err, "byte %#02x", c)
		}
	}
}

func TestRead(t *testing.T) {
	id, err := Read(bytes.NewReader(headerWith(GBA, "BPEE")), GBA)
	require.NoError(t, err)
	assert.Equal(t, "BPEE", id.String())

	_, err = Read(bytes.NewReader(make([]byte, 8)), NDS)
	assert.Equal(t, ErrTooShort, err)

	_, err = Read(bytes.NewReader(nil), NDS)
	assert.Equal(t, ErrTooShort, err)

	_, err = Read(iotest.ErrReader(iotest.ErrTimeout), NDS)
	assert.Equal(t, iotest.ErrTimeout, err)
}

func TestParse(t *testing.T) {
	id, err := Parse("NTRE")
	require.NoError(t, err)
	assert.Equal(t, "NTRE", id.String())

	for _, s := range []string{"", "NTR", "NTREE", "NT/E"} {
		_, err := Parse(s)
		assert.Equal(t, ErrInvalid, err, s)
	}
}

func TestRegion(t *testing.T) {
	id, err := Parse("NTRE")
	require.NoError(t, err)

	r, ok := id.Region()
	assert.True(t, ok)
	assert.Equal(t, byte('E'), r)

	_, ok = Identifier{}.Region()
	assert.False(t, ok)
}
