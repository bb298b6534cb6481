package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/llehouerou/wavesdb/internal/logging"
)

const version = "0.3.0"

func main() {
	logger, _ := logging.New(os.Stderr, "")

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "wavesdb",
		Usage:    "Index a music library and query it by tag",
		Version:  version,
		Flags:    globalFlags(),
		Commands: runner.register(),
		After:    runner.Close,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		runner.logger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Path to the database (overrides db_path)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error (overrides log_level)",
		},
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "Disable colored output",
		},
	}
}
