package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bodgit/picocover"
	"github.com/bodgit/picocover/render"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file. Any flag set on the
// command line takes precedence.
type fileConfig struct {
	Platform     string        `yaml:"platform"`
	Regions      []string      `yaml:"regions"`
	URLTemplates []string      `yaml:"url_templates"`
	Overwrite    bool          `yaml:"overwrite"`
	Timeout      time.Duration `yaml:"timeout"`
	Workers      int           `yaml:"workers"`
	Direct       bool          `yaml:"direct"`
	OutputDir    string        `yaml:"output_dir"`
}

func loadConfig(file string) (*fileConfig, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	return &fc, nil
}

func buildConfig(c *cli.Context, root string) (picocover.Config, error) {
	fc := new(fileConfig)
	if file := c.String("config"); file != "" {
		var err error
		if fc, err = loadConfig(file); err != nil {
			return picocover.Config{}, err
		}
	}

	if c.IsSet("platform") || fc.Platform == "" {
		fc.Platform = c.String("platform")
	}
	if c.IsSet("region") || len(fc.Regions) == 0 {
		fc.Regions = c.StringSlice("region")
	}
	if c.IsSet("url-template") {
		fc.URLTemplates = c.StringSlice("url-template")
	}
	if c.IsSet("overwrite") {
		fc.Overwrite = c.Bool("overwrite")
	}
	if c.IsSet("timeout") || fc.Timeout == 0 {
		fc.Timeout = c.Duration("timeout")
	}
	if c.IsSet("workers") {
		fc.Workers = c.Int("workers")
	}
	if c.IsSet("direct") {
		fc.Direct = c.Bool("direct")
	}
	if c.IsSet("output-dir") {
		fc.OutputDir = c.String("output-dir")
	}

	p, err := picocover.PlatformByName(fc.Platform)
	if err != nil {
		return picocover.Config{}, err
	}

	policy := render.Canvas
	if fc.Direct {
		policy = render.Direct
	}

	return picocover.Config{
		Root:         root,
		Platform:     p,
		Regions:      fc.Regions,
		URLTemplates: fc.URLTemplates,
		Overwrite:    fc.Overwrite,
		Timeout:      fc.Timeout,
		Workers:      fc.Workers,
		Policy:       policy,
		OutputDir:    fc.OutputDir,
	}, nil
}
