package picocover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/bodgit/picocover/render"
)

const (
	// DefaultTimeout bounds each request made to a cover source.
	DefaultTimeout = 15 * time.Second

	outputBase = "_pico/covers"
)

// Config describes a single run over a directory tree. The zero value of
// every field other than Root has a usable default.
type Config struct {
	Root     string
	Platform Platform
	// Regions and URLTemplates are tried in order, regions outermost
	Regions      []string
	URLTemplates []string
	// Overwrite replaces existing covers rather than skipping them
	Overwrite bool
	Timeout   time.Duration
	// Workers is the number of files processed concurrently, defaults to
	// the number of CPUs
	Workers int
	Policy  render.Policy
	// OutputDir overrides <Root>/_pico/covers/<platform>
	OutputDir string
	// Progress, if set, is called after each file with the number of
	// files completed so far and the total found. Calls are never
	// concurrent.
	Progress func(done, total int)
}

func (c Config) withDefaults() (Config, error) {
	if c.Root == "" {
		return c, errors.New("no root directory")
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return c, err
	}
	c.Root = root
	fi, err := os.Stat(root)
	if err != nil {
		return c, err
	}
	if !fi.IsDir() {
		return c, fmt.Errorf("%s is not a directory", root)
	}
	if c.Workers < 0 {
		return c, errors.New("negative number of workers")
	}
	if c.Platform.Name == "" {
		c.Platform = NDS
	}
	if len(c.Regions) == 0 {
		c.Regions = DefaultRegions
	}
	if len(c.URLTemplates) == 0 {
		c.URLTemplates = c.Platform.URLTemplates
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.Root, filepath.FromSlash(outputBase), c.Platform.Name)
	}
	return c, nil
}
