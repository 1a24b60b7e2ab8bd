package main

import (
	"fmt"
	"sort"

	"git.home.luguber.info/inful/coursebuilder/internal/assign"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// runTests prints the extracted test table of a master notebook, grouped by
// exercise in declaration-independent sorted order.
func runTests() error {
	nb, err := notebook.ParseFile(CLI.Tests.Master)
	if err != nil {
		return err
	}
	_, tests, err := assign.Transform(nb, assign.Options{EmbedInlineTests: true})
	if err != nil {
		return err
	}

	exercises := make([]string, 0, len(tests))
	for id := range tests {
		exercises = append(exercises, id)
	}
	sort.Strings(exercises)

	for _, id := range exercises {
		names := make([]string, 0, len(tests[id]))
		for name := range tests[id] {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("=== %s/%s ===\n%s\n", id, name, tests[id][name])
		}
	}
	return nil
}
