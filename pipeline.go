package picocover

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/picocover/cover"
	"github.com/bodgit/picocover/header"
	"github.com/bodgit/picocover/render"
	"golang.org/x/sync/errgroup"
)

func (m *PicoCover) findROMs(root string, p Platform) []string {
	var files []string
	filepath.Walk(root, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			m.logger.Printf("Error %s: %s\n", file, err)
			return nil
		}

		// Ignore anything that isn't a normal file
		if !info.Mode().IsRegular() {
			return nil
		}

		if p.matches(file) {
			files = append(files, file)
		}

		return nil
	})
	return files
}

func readIdentifier(file string, l header.Layout) (header.Identifier, error) {
	f, err := os.Open(file)
	if err != nil {
		return header.Identifier{}, err
	}
	defer f.Close()

	return header.Read(f, l)
}

func displayName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func (m *PicoCover) title(p Platform, id header.Identifier, name string) string {
	if m.db == nil {
		return name
	}
	t, err := m.db.FindTitle(p.Name, id)
	if err != nil {
		m.logger.Printf("Error looking up title for [%s]: %s\n", id, err)
		return name
	}
	if t == "" {
		return name
	}
	return t
}

func (m *PicoCover) cachedCover(p Platform, id header.Identifier) image.Image {
	if m.db == nil {
		return nil
	}
	b, err := m.db.FindCover(p.Name, id)
	if err != nil {
		m.logger.Printf("Error reading cached cover for [%s]: %s\n", id, err)
		return nil
	}
	if b == nil {
		return nil
	}
	img, _, err := render.Decode(b)
	if err != nil {
		m.logger.Printf("Error decoding cached cover for [%s]: %s\n", id, err)
		return nil
	}
	return img
}

func (m *PicoCover) findCover(ctx context.Context, cfg Config, r *cover.Resolver, id header.Identifier, title string) (image.Image, error) {
	if img := m.cachedCover(cfg.Platform, id); img != nil {
		m.logger.Printf("Found %s [%s] - cached\n", title, id)
		return img, nil
	}

	var c *cover.Cover
	for _, region := range cfg.Regions {
		m.logger.Printf("Checking %s [%s] - %s\n", title, id, region)
		var err error
		c, err = r.Resolve(ctx, id, []string{region}, cfg.URLTemplates)
		if err == nil {
			break
		}
		if !errors.Is(err, cover.ErrNotFound) {
			return nil, err
		}
	}
	if c == nil {
		return nil, cover.ErrNotFound
	}
	m.logger.Printf("Found %s [%s] - %s\n", title, id, c.Region)

	if m.db != nil {
		if err := m.db.AddCover(cfg.Platform.Name, id, c.URL, c.Data); err != nil {
			m.logger.Printf("Error caching cover for [%s]: %s\n", id, err)
		}
	}

	return c.Image, nil
}

func (m *PicoCover) processFile(ctx context.Context, cfg Config, r *cover.Resolver, renderer *render.Renderer, file string) outcome {
	name := displayName(file)

	id, err := readIdentifier(file, cfg.Platform.Layout)
	switch {
	case errors.Is(err, header.ErrTooShort), errors.Is(err, header.ErrInvalid):
		// Not a ROM of the expected kind
		return outcome{resultIgnored, name}
	case err != nil:
		m.logger.Printf("Error %s: %s\n", file, err)
		return outcome{resultFailed, name}
	}

	title := m.title(cfg.Platform, id, name)

	// Two files sharing a game code race here, the last one written wins
	target := filepath.Join(cfg.OutputDir, id.String()+".bmp")
	if !cfg.Overwrite {
		if _, err := os.Stat(target); err == nil {
			m.logger.Printf("Skipped %s [%s] - already exists\n", title, id)
			return outcome{resultSkipped, name}
		}
	}

	img, err := m.findCover(ctx, cfg, r, id, title)
	if err != nil {
		if errors.Is(err, cover.ErrNotFound) {
			m.logger.Printf("Not found %s [%s] - no covers available\n", title, id)
			return outcome{resultSkipped, name}
		}
		m.logger.Printf("Error %s: %s\n", file, err)
		return outcome{resultFailed, name}
	}

	b, err := renderer.RenderImage(img)
	if err != nil {
		m.logger.Printf("Error %s: rendering bitmap: %s\n", file, err)
		return outcome{resultFailed, name}
	}

	if err := os.WriteFile(target, b, 0644); err != nil {
		m.logger.Printf("Error %s: %s\n", file, err)
		return outcome{resultFailed, name}
	}

	m.logger.Printf("Stored %s [%s]\n", title, id)
	return outcome{resultSaved, name}
}

// Run finds every ROM for the configured platform under cfg.Root and fetches
// and stores a cover for each one. Failures affecting a single file are
// logged and counted but never stop the run; only being unable to create the
// output directory or an invalid configuration returns an error before any
// file is processed.
//
// Cancelling ctx stops any further files from being started, files already
// in progress run to completion. The statistics gathered so far are returned
// along with ctx.Err().
func (m *PicoCover) Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	client := &http.Client{
		Transport: m.transport,
		Timeout:   cfg.Timeout,
	}
	resolver := cover.NewResolver(client)
	renderer := render.New(cfg.Policy)

	files := m.findROMs(cfg.Root, cfg.Platform)

	outcomes := make(chan outcome)
	statsc := collect(outcomes, len(files), cfg.Progress)

	// Work already started is not interrupted
	work := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes <- m.processFile(work, cfg, resolver, renderer, file)
			return nil
		})
	}
	g.Wait()
	close(outcomes)

	stats := <-statsc
	return &stats, ctx.Err()
}
