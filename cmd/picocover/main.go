package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/bodgit/picocover"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openDB(c *cli.Context) (*picocover.CoverDB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return picocover.NewCoverDB(c.String("db"))
}

func progress(c *cli.Context) func(int, int) {
	if c.Bool("verbose") {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "covers")
		}
		bar.Set(done)
	}
}

func printStats(stats *picocover.Stats) {
	fmt.Printf("Done. %s\n", stats)
	if len(stats.SkippedGames) > 0 {
		fmt.Printf("Skipped: %s\n", strings.Join(stats.SkippedGames, ", "))
	}
	if len(stats.FailedGames) > 0 {
		fmt.Printf("Failed: %s\n", strings.Join(stats.FailedGames, ", "))
	}
}

func platformFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Value:   picocover.NDS.Name,
		Usage:   fmt.Sprintf("platform, one of %s", strings.Join(picocover.Platforms(), ", ")),
	}
}

func scanFlags() []cli.Flag {
	return []cli.Flag{
		platformFlag(),
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"PICOCOVER_CONFIG"},
			Usage:   "path to YAML configuration file",
		},
		&cli.StringSliceFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Value:   cli.NewStringSlice(picocover.DefaultRegions...),
			Usage:   "region codes to try, in order",
		},
		&cli.StringSliceFlag{
			Name:  "url-template",
			Usage: "URL templates to try, in order; use {region} and {id} placeholders",
		},
		&cli.BoolFlag{
			Name:  "overwrite",
			Usage: "overwrite existing covers instead of skipping",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: picocover.DefaultTimeout,
			Usage: "network timeout",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "number of files to process concurrently (default number of CPUs)",
		},
		&cli.BoolFlag{
			Name:  "direct",
			Usage: "resize covers to fill the whole bitmap",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "override the output directory",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "picocover"
	app.Usage = "Pico Launcher cover art utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PICOCOVER_DB"},
			Usage:   "path to cover and title database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import game titles from a No-Intro DAT file",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{platformFlag()},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if c.String("db") == "" {
					return cli.Exit("no database specified", 1)
				}

				p, err := picocover.PlatformByName(c.String("platform"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				n, err := db.ImportDAT(p, c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("Imported %d titles\n", n)

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and download covers",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       scanFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := buildConfig(c, c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				cfg.Progress = progress(c)

				db, err := openDB(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if db != nil {
					defer db.Close()
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				stats, err := picocover.New(db, newLogger(c)).Run(ctx, cfg)
				if stats != nil {
					printStats(stats)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
