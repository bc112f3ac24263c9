package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/zatekoja/catalogsearch/internal/infrastructure/observability"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "searchctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "searchctl",
		Usage: "Operate the catalog search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: migrateUpCommand,
					},
					{
						Name:   "down",
						Usage:  "Revert applied migrations",
						Action: migrateDownCommand,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "steps",
								Usage: "Number of migrations to revert",
								Value: 1,
							},
						},
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Run a search and print the ranked results",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Free-text search query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to a category id (\"all\" for no filter)",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Caller id recorded on the search event",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the raw JSON response",
					},
				},
			},
			{
				Name:  "visit",
				Usage: "View a catalog item, attributing it to a search",
				Subcommands: []*cli.Command{
					{
						Name:   "product",
						Usage:  "View a product",
						Action: visitCommand(visitProduct),
						Flags:  visitFlags(),
					},
					{
						Name:   "category",
						Usage:  "View a category",
						Action: visitCommand(visitCategory),
						Flags:  visitFlags(),
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load a catalog file into the database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Catalog JSON file (defaults to the bundled sample catalog)",
					},
				},
			},
		},
	}
}

func visitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Item id",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "search-id",
			Usage: "Search event the visit came from",
		},
	}
}

func setupLogger(c *cli.Context) error {
	level := strings.ToLower(c.String("log-level"))
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}

	observability.InitCLILogger("searchctl", level)
	return nil
}
