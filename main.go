package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options are shared by every command
type Options struct {
	Config   string `short:"c" long:"config" env:"QUOTES_CONFIG" default:"config.yaml" description:"Path to the crawl configuration file (defaults are used when it does not exist)"`
	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	LogJSON  bool   `long:"log-json" env:"LOG_JSON" description:"Write logs as JSON instead of console text"`
}

var opts Options

func main() {
	// Errors are reported here, command failures through the logger
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	parser.AddCommand("crawl", "Crawl the site and write the CSV files",
		"Walks the listing twice: once for author pages and once for quotes. Writes the authors CSV, the quotes CSV and the deduplicated authors CSV, then the optional database, spreadsheet and Telegram sinks.",
		&crawlCommand{})
	parser.AddCommand("dedup", "Remove rows with a repeated author name from a CSV",
		"Keeps the first row of every author name found in the 'autor' or 'author' column.",
		&dedupCommand{})
	parser.AddCommand("serve", "Serve the question API and the quotes dashboard",
		"Indexes the deduplicated authors CSV for question answering and loads the quotes CSV for the dashboard.",
		&serveCommand{})
	parser.AddCommand("schedule", "Run the crawl on a cron schedule",
		"Runs the same pipeline as crawl at every activation of a cron expression, one run at a time.",
		&scheduleCommand{})

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLogging(opts.LogLevel, opts.LogJSON)
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(1)
		}
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string, asJSON bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if asJSON || !isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
