package main

import (
	"fmt"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/lint"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// runCheck lints a master notebook and prints every issue. Error-level
// issues make the command fail.
func runCheck() error {
	nb, err := notebook.ParseFile(CLI.Check.Master)
	if err != nil {
		return err
	}

	result := lint.Check(nb)
	for _, issue := range result.Issues {
		fmt.Printf("%s cell %d [%s]: %s\n",
			issue.Severity, issue.Cell, issue.Rule, issue.Message)
	}

	if result.HasErrors() {
		return errors.AuthoringError("master notebook has authoring errors").
			WithContext("path", CLI.Check.Master).
			WithContext("issues", len(result.Issues)).
			Build()
	}
	fmt.Printf("%d cells checked, %d issues\n", result.CellsTotal, len(result.Issues))
	return nil
}
