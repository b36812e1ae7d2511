/*
Package cover locates box art for a game code on a remote image server.

URL templates contain a {region} and an {id} placeholder. Every combination of
region and template is tried once, regions outermost, and the first response
that decodes as an image wins. Running out of candidates is not an error as
such; plenty of titles simply have no published art.
*/
package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/bodgit/picocover/header"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

const (
	// RegionToken is replaced by the region code.
	RegionToken = "{region}"
	// IDToken is replaced by the game code.
	IDToken = "{id}"

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "pico-cover/0.1"

	// Ignore anything larger than 16 MB
	maxBodySize = 16 << (10 * 2)
)

// ErrNotFound is returned when no candidate produced an image.
var ErrNotFound = errors.New("cover: not found")

// Candidate is a single region and template combination.
type Candidate struct {
	Region   string
	Template string
	URL      string
}

// Expand substitutes region and id into template.
func Expand(template, region string, id header.Identifier) string {
	return strings.NewReplacer(RegionToken, region, IDToken, id.String()).Replace(template)
}

// Candidates returns the candidates for id in the order they should be tried.
// The URLs are built lazily as the sequence is consumed.
func Candidates(id header.Identifier, regions, templates []string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, region := range regions {
			for _, template := range templates {
				if !yield(Candidate{
					Region:   region,
					Template: template,
					URL:      Expand(template, region, id),
				}) {
					return
				}
			}
		}
	}
}

// Cover is the art found for a game code.
type Cover struct {
	Candidate
	// Attempts is the number of candidates tried, including this one
	Attempts int
	// Format is the name of the image format as registered with the image
	// package
	Format string
	// Data is the raw response body
	Data  []byte
	Image image.Image
}

// Doer is the subset of *http.Client used by a Resolver.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Resolver fetches cover art. It is safe for concurrent use if the
// underlying client is.
type Resolver struct {
	client    Doer
	userAgent string
}

// NewResolver returns a Resolver issuing requests with client. Any timeout
// should be configured on the client.
func NewResolver(client Doer) *Resolver {
	return &Resolver{
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("cover: %s returned %s", url, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// Resolve tries each candidate for id in turn and returns the first one that
// can be decoded as an image. Transport errors, unsuccessful responses and
// undecodable bodies all just move on to the next candidate. ErrNotFound is
// returned once every candidate has been tried, or ctx.Err() if ctx was
// cancelled first.
func (r *Resolver) Resolve(ctx context.Context, id header.Identifier, regions, templates []string) (*Cover, error) {
	var attempts int
	for c := range Candidates(id, regions, templates) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++

		b, err := r.fetch(ctx, c.URL)
		if err != nil {
			continue
		}

		m, format, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			continue
		}

		return &Cover{
			Candidate: c,
			Attempts:  attempts,
			Format:    format,
			Data:      b,
			Image:     m,
		}, nil
	}
	return nil, ErrNotFound
}
