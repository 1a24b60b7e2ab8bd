// Package lint checks master notebooks for authoring mistakes before they
// reach students: unbalanced solution or prompt markers, duplicate exercise
// ids, tests declared outside an exercise, and exercises nothing tests.
package lint

import (
	"fmt"

	"git.home.luguber.info/inful/coursebuilder/internal/markers"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// Check runs all rules over a master notebook.
func Check(nb *notebook.Notebook) *Result {
	res := &Result{CellsTotal: len(nb.Cells)}

	currentID := ""
	testsPerExercise := map[string]int{}
	declaredAt := map[string]int{}
	var exerciseOrder []string

	for i, cell := range nb.Cells {
		if cell.Type != "code" {
			continue
		}
		if markers.IsMasterOnly(cell.Source) {
			currentID = ""
			continue
		}

		if test, _, ok := markers.MatchTest(cell.Source); ok {
			if currentID == "" {
				res.add(i, SeverityError, "orphan-test",
					fmt.Sprintf("test %q declared before any exercise id", test.Name))
			} else {
				testsPerExercise[currentID]++
			}
			continue
		}
		if markers.IsAuthoringOnly(cell.Source) {
			continue
		}

		src, _ := markers.StripSolutionMagic(cell.Source)
		if id, rest, ok := markers.ExtractExerciseID(src); ok {
			if prev, dup := declaredAt[id]; dup {
				res.add(i, SeverityError, "exercise-ids",
					fmt.Sprintf("exercise id %q already declared in cell %d", id, prev))
			} else {
				declaredAt[id] = i
				exerciseOrder = append(exerciseOrder, id)
			}
			currentID = id
			src = rest
		}

		checkSolutionPairing(res, i, src)
		checkPromptPairing(res, i, src)
	}

	for _, id := range exerciseOrder {
		if testsPerExercise[id] == 0 {
			res.add(declaredAt[id], SeverityWarning, "exercise-tests",
				fmt.Sprintf("exercise %q has no inline or student tests", id))
		}
	}

	checkTitle(res, nb)
	return res
}

func (r *Result) add(cell int, sev Severity, rule, message string) {
	r.Issues = append(r.Issues, Issue{Cell: cell, Severity: sev, Rule: rule, Message: message})
}

// checkSolutionPairing verifies that BEGIN SOLUTION and END SOLUTION markers
// strictly alternate within a cell.
func checkSolutionPairing(res *Result, cell int, source string) {
	begins := allMatches(source, func(s string) []int { return markers.FindSolutionBegin(s) })
	ends := allMatches(source, markers.FindSolutionEnd)

	bi, ei := 0, 0
	open := false
	for bi < len(begins) || ei < len(ends) {
		nextBegin := at(begins, bi)
		nextEnd := at(ends, ei)
		if nextBegin >= 0 && (nextEnd < 0 || nextBegin < nextEnd) {
			if open {
				res.add(cell, SeverityError, "solution-pairing",
					"BEGIN SOLUTION inside an open solution region")
			}
			open = true
			bi++
		} else {
			if !open {
				res.add(cell, SeverityError, "solution-pairing",
					"END SOLUTION without a preceding BEGIN SOLUTION")
			}
			open = false
			ei++
		}
	}
	if open {
		res.add(cell, SeverityError, "solution-pairing",
			"BEGIN SOLUTION without END SOLUTION")
	}
}

// checkPromptPairing verifies prompt regions are complete and ordered.
func checkPromptPairing(res *Result, cell int, source string) {
	begins := allMatches(source, markers.FindPromptBegin)
	ends := allMatches(source, markers.FindPromptEnd)

	switch {
	case len(begins) == len(ends):
		for i := range begins {
			if ends[i] < begins[i] {
				res.add(cell, SeverityError, "prompt-pairing",
					"END PROMPT appears before its BEGIN PROMPT")
				return
			}
		}
	case len(begins) > len(ends):
		res.add(cell, SeverityError, "prompt-pairing",
			"BEGIN PROMPT without END PROMPT")
	default:
		res.add(cell, SeverityError, "prompt-pairing",
			"END PROMPT without BEGIN PROMPT")
	}
}

// allMatches walks a single-match finder across the source and returns the
// absolute start offset of every match.
func allMatches(source string, find func(string) []int) []int {
	var starts []int
	offset := 0
	for {
		m := find(source[offset:])
		if m == nil {
			return starts
		}
		starts = append(starts, offset+m[0])
		advance := m[1]
		if advance <= m[0] {
			advance = m[0] + 1
		}
		offset += advance
	}
}

func at(starts []int, i int) int {
	if i < len(starts) {
		return starts[i]
	}
	return -1
}
