/*
Package picocover is a library for populating the cover art used by the Pico
Launcher for Nintendo DS and Game Boy Advance ROM images.

Each ROM found under a root directory is identified by the game code in its
header, matching box art is downloaded and converted to the 8-bit indexed
bitmap the launcher expects, and written to _pico/covers/<platform>/<code>.bmp
on the same card.
*/
package picocover

import (
	"io"
	"log"
	"net/http"
)

// PicoCover runs the cover pipeline.
type PicoCover struct {
	db        *CoverDB
	logger    *log.Logger
	transport http.RoundTripper
}

// Option configures a PicoCover.
type Option func(*PicoCover)

// WithTransport sets the transport used for all HTTP requests, the default is
// http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(m *PicoCover) {
		m.transport = rt
	}
}

// New returns a PicoCover logging each event to logger. If db is not nil it is
// used as a cache of downloaded covers and a source of game titles.
func New(db *CoverDB, logger *log.Logger, options ...Option) *PicoCover {
	m := &PicoCover{
		db:     db,
		logger: logger,
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard, "", 0)
	}
	for _, o := range options {
		o(m)
	}
	return m
}
