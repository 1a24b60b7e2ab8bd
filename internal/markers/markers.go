// Package markers implements the line-anchored textual grammar recognized
// inside master-notebook cells: master-only tags, authoring magics
// (%%solution, %%submission, %%template, autotest/report calls), inline and
// student test headers, exercise-id declarations, and solution/prompt region
// boundaries.
//
// Cell magics (%% markers) are only meaningful on the first line of a cell
// and are anchored at the start of the source; comment markers may appear on
// any line and are matched in multiline mode.
package markers

import (
	"regexp"
	"strings"
)

var (
	// masterOnlyRe marks a whole cell (code or markdown) as master-only.
	masterOnlyRe = regexp.MustCompile(`(?m)^[ \t]*#.*MASTER ONLY.*$`)

	// Authoring-only cell markers. Cells matching any of these never appear
	// in the student notebook.
	submissionRe = regexp.MustCompile(`\A%%submission[ \t]*\n`)
	autotestRe   = regexp.MustCompile(`%%autotest|autotest\(`)
	reportRe     = regexp.MustCompile(`%%(template|report)|report\(`)

	// solutionMagicRe marks a solution cell. The magic line is stripped and
	// the cell is kept.
	solutionMagicRe = regexp.MustCompile(`\A[ \t]*%%solution[^\n]*\n`)

	// testRe matches the %%inlinetest / %%studenttest header line. Group 1 is
	// the flavor, group 2 the test name; the body is everything after the line.
	testRe = regexp.MustCompile(`(?m)^[ \t]*#? ?%%(inline|student)test[ \t]+([a-zA-Z][a-zA-Z0-9_]*)[ \t]*\n?`)

	// exerciseIDRe declares or updates the current exercise id. The marker
	// line itself is deleted from output.
	exerciseIDRe = regexp.MustCompile(`(?m)^# *EXERCISE_ID: ['"]?([a-zA-Z0-9_.-]+)['"]?[ \t]*\n`)

	// Solution region boundaries. Group 1 of the begin marker captures the
	// indentation used for the default prompt.
	solutionBeginRe = regexp.MustCompile(`(?m)^([ \t]*)# BEGIN SOLUTION[ \t]*\n`)
	solutionEndRe   = regexp.MustCompile(`(?m)^[ \t]*# END SOLUTION[ \t]*\n`)

	// Prompt region boundaries. The enclosed text replaces the default
	// prompt of the next solution region.
	promptBeginRe = regexp.MustCompile(`(?m)^[ \t]*""" # BEGIN PROMPT[ \t]*\n`)
	promptEndRe   = regexp.MustCompile(`(?m)^[ \t]*""" # END PROMPT[ \t]*\n?`)
)

// IsMasterOnly reports whether the cell source carries a master-only tag.
// It applies to code and markdown cells alike.
func IsMasterOnly(source string) bool {
	return masterOnlyRe.MatchString(source)
}

// IsAuthoringOnly reports whether a code cell is authoring-only content
// (%%submission, autotest or template/report invocations) that must never
// appear in the student notebook.
func IsAuthoringOnly(source string) bool {
	return submissionRe.MatchString(source) ||
		autotestRe.MatchString(source) ||
		reportRe.MatchString(source)
}

// StripSolutionMagic removes a leading %%solution magic line. The second
// return value reports whether the magic was present.
func StripSolutionMagic(source string) (string, bool) {
	m := solutionMagicRe.FindStringIndex(source)
	if m == nil {
		return source, false
	}
	return source[m[1]:], true
}

// Test is a parsed inline or student test header.
type Test struct {
	// Name is the test identifier from the header line.
	Name string
	// Body is everything after the header line, trailing whitespace trimmed.
	Body string
	// Student reports whether this is a %%studenttest (kept in the student
	// notebook) rather than a %%inlinetest (dropped from it).
	Student bool
}

// MatchTest extracts an inline/student test from a code cell. The returned
// remainder is the source with the header line removed; it is only meaningful
// for student tests, which stay in the student notebook.
func MatchTest(source string) (test Test, remainder string, ok bool) {
	m := testRe.FindStringSubmatchIndex(source)
	if m == nil {
		return Test{}, source, false
	}
	test = Test{
		Name:    source[m[4]:m[5]],
		Body:    trimTrailingSpace(source[m[1]:]),
		Student: source[m[2]:m[3]] == "student",
	}
	return test, source[:m[0]] + source[m[1]:], true
}

// ExtractExerciseID finds an exercise-id declaration. It returns the id and
// the source with the marker line deleted.
func ExtractExerciseID(source string) (id string, remainder string, ok bool) {
	m := exerciseIDRe.FindStringSubmatchIndex(source)
	if m == nil {
		return "", source, false
	}
	return source[m[2]:m[3]], source[:m[0]] + source[m[1]:], true
}

// FindSolutionBegin returns the match location of the next solution-begin
// marker as [start, end, indentStart, indentEnd], or nil.
func FindSolutionBegin(source string) []int {
	return solutionBeginRe.FindStringSubmatchIndex(source)
}

// FindSolutionEnd returns the match location of the next solution-end marker,
// or nil.
func FindSolutionEnd(source string) []int {
	return solutionEndRe.FindStringIndex(source)
}

// FindPromptBegin returns the match location of the next prompt-begin marker,
// or nil.
func FindPromptBegin(source string) []int {
	return promptBeginRe.FindStringIndex(source)
}

// FindPromptEnd returns the match location of the next prompt-end marker,
// or nil.
func FindPromptEnd(source string) []int {
	return promptEndRe.FindStringIndex(source)
}

func trimTrailingSpace(s string) string {
	return strings.TrimRight(s, " \t\n\r")
}
