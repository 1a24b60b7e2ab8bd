package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"coursebuilder.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Student struct {
		Master     string `arg:"" help:"Master notebook path"`
		Output     string `short:"o" help:"Output path for the student notebook"`
		EmbedTests bool   `help:"Embed extracted tests in exercise cell metadata"`
		Watch      bool   `help:"Regenerate the student notebook when the master changes"`
	} `cmd:"" help:"Generate the student notebook from a master notebook"`

	Grade struct {
		Master     string        `short:"m" required:"" help:"Canonical notebook with embedded tests"`
		Submission string        `short:"s" required:"" help:"Submission notebook to grade"`
		Context    string        `help:"Shared preamble code run before each submission"`
		Record     string        `help:"SQLite file to record the outcome in"`
		Timeout    time.Duration `help:"Per-test execution timeout" default:"30s"`
	} `cmd:"" help:"Grade a submission notebook and print one JSON result line"`

	Tests struct {
		Master string `arg:"" help:"Master notebook path"`
	} `cmd:"" help:"Print the tests extracted from a master notebook"`

	Check struct {
		Master string `arg:"" help:"Master notebook path"`
	} `cmd:"" help:"Check a master notebook for authoring mistakes"`

	Serve struct {
		Master string `short:"m" required:"" help:"Canonical notebook with embedded tests"`
		Addr   string `help:"Listen address override"`
	} `cmd:"" help:"Serve the grading API over HTTP"`

	Worker struct {
		Master string `short:"m" required:"" help:"Canonical notebook with embedded tests"`
	} `cmd:"" help:"Consume submissions from the queue and grade them"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("coursebuilder"),
		kong.Description("Master-notebook transformer and autograder"))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "student <master>":
		err = runStudent()
	case "grade":
		err = runGrade()
	case "tests <master>":
		err = runTests()
	case "check <master>":
		err = runCheck()
	case "serve":
		err = runServe()
	case "worker":
		err = runWorker()
	}

	if err != nil {
		adapter := errors.NewCLIErrorAdapter(CLI.Verbose, logger)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
