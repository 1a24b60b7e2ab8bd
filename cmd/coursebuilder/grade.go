package main

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/coursebuilder/internal/executor"
	"git.home.luguber.info/inful/coursebuilder/internal/grader"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
	"git.home.luguber.info/inful/coursebuilder/internal/resultstore"
)

// runGrade prints exactly one JSON result line to stdout. Any grading
// outcome, including an ungradable submission, exits 0; only usage, IO or
// parse failures return an error.
func runGrade() error {
	canonical, err := loadCanonical(CLI.Grade.Master)
	if err != nil {
		return err
	}
	submission, err := notebook.ParseFile(CLI.Grade.Submission)
	if err != nil {
		return err
	}

	engine := &grader.Engine{
		Executor: executor.New(CLI.Grade.Timeout),
		Context:  CLI.Grade.Context,
	}

	ctx := context.Background()
	result, err := engine.Grade(ctx, canonical, submission)
	if err != nil {
		return err
	}

	if CLI.Grade.Record != "" {
		if err := recordResult(ctx, CLI.Grade.Record, result); err != nil {
			slog.Warn("failed to record grading result", "error", err)
		}
	}

	line, err := result.Line()
	if err != nil {
		return err
	}
	fmt.Println(line)
	return nil
}

func recordResult(ctx context.Context, path string, result *grader.Result) error {
	store, err := resultstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, resultstore.FromResult(CLI.Grade.Submission, result))
}
