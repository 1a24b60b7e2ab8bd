package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteSource_SingleSolutionRegion_ReplacedByIndentedEllipsis(t *testing.T) {
	source := "" +
		"def add(a, b):\n" +
		"    # BEGIN SOLUTION\n" +
		"    return a + b\n" +
		"    # END SOLUTION\n"

	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	assert.Equal(t, "def add(a, b):\n    ...\n", out)
}

func TestRewriteSource_PromptRegion_ReplacesNextSolutionWithNoResidue(t *testing.T) {
	source := "" +
		"def greet(name):\n" +
		"\"\"\" # BEGIN PROMPT\n" +
		"    return 'Hello, ' + ...\n" +
		"\"\"\" # END PROMPT\n" +
		"    # BEGIN SOLUTION\n" +
		"    return 'Hello, ' + name\n" +
		"    # END SOLUTION\n"

	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	assert.Equal(t, "def greet(name):\n    return 'Hello, ' + ...\n", out)
	assert.NotContains(t, out, "PROMPT")
}

func TestRewriteSource_TwoRegions_PromptAppliesForwardOnly(t *testing.T) {
	source := "" +
		"# BEGIN SOLUTION\n" +
		"first = 1\n" +
		"# END SOLUTION\n" +
		"middle = 2\n" +
		"\"\"\" # BEGIN PROMPT\n" +
		"second = ...\n" +
		"\"\"\" # END PROMPT\n" +
		"# BEGIN SOLUTION\n" +
		"second = 3\n" +
		"# END SOLUTION\n" +
		"tail = 4\n"

	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	// The first region gets the default prompt, only the second picks up the
	// declared one.
	assert.Equal(t, "...\nmiddle = 2\nsecond = ...\ntail = 4\n", out)
}

func TestRewriteSource_DeclaredPromptPersistsForLaterRegions(t *testing.T) {
	source := "" +
		"\"\"\" # BEGIN PROMPT\n" +
		"fill me\n" +
		"\"\"\" # END PROMPT\n" +
		"# BEGIN SOLUTION\n" +
		"a = 1\n" +
		"# END SOLUTION\n" +
		"# BEGIN SOLUTION\n" +
		"b = 2\n" +
		"# END SOLUTION\n"

	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	assert.Equal(t, "fill me\nfill me\n", out)
}

func TestRewriteSource_UnterminatedSolution_NonFatalBestEffort(t *testing.T) {
	source := "" +
		"x = 1\n" +
		"# BEGIN SOLUTION\n" +
		"y = 2\n"

	out, defects := RewriteSource(source)
	require.Len(t, defects, 1)
	assert.Equal(t, DefectUnterminatedSolution, defects[0].Kind)
	// Everything from the dangling begin marker on is emitted unchanged.
	assert.Equal(t, source, out)
}

func TestRewriteSource_HalfPairedPrompt_LeftVisibleInOutput(t *testing.T) {
	source := "" +
		"\"\"\" # BEGIN PROMPT\n" +
		"orphan\n" +
		"# BEGIN SOLUTION\n" +
		"a = 1\n" +
		"# END SOLUTION\n"

	out, defects := RewriteSource(source)
	require.Len(t, defects, 1)
	assert.Equal(t, DefectHalfPairedPrompt, defects[0].Kind)
	// The orphan begin marker stays in the text so the defect is visible.
	assert.Contains(t, out, "BEGIN PROMPT")
	// The solution region is still replaced by the default prompt.
	assert.Contains(t, out, "...\n")
	assert.NotContains(t, out, "a = 1")
}

func TestRewriteSource_InvertedPromptPair_FallsBackToDefault(t *testing.T) {
	source := "" +
		"\"\"\" # END PROMPT\n" +
		"\"\"\" # BEGIN PROMPT\n" +
		"# BEGIN SOLUTION\n" +
		"a = 1\n" +
		"# END SOLUTION\n"

	out, defects := RewriteSource(source)
	require.NotEmpty(t, defects)
	assert.Equal(t, DefectInvertedPrompt, defects[0].Kind)
	assert.Contains(t, out, "END PROMPT")
	assert.Contains(t, out, "...\n")
}

func TestRewriteSource_StripsSolutionMagicAndExerciseID(t *testing.T) {
	source := "" +
		"%%solution\n" +
		"# EXERCISE_ID: \"ex1\"\n" +
		"x = 1\n"

	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	assert.Equal(t, "x = 1\n", out)
}

func TestRewriteSource_NoMarkers_Unchanged(t *testing.T) {
	source := "plain = True\n"
	out, defects := RewriteSource(source)
	require.Empty(t, defects)
	assert.Equal(t, source, out)
}

func TestRewriteSource_IdempotentOnOwnOutput(t *testing.T) {
	source := "" +
		"%%solution\n" +
		"def f(x):\n" +
		"    # BEGIN SOLUTION\n" +
		"    return x * 2\n" +
		"    # END SOLUTION\n"

	once, defects := RewriteSource(source)
	require.Empty(t, defects)
	twice, defects := RewriteSource(once)
	require.Empty(t, defects)
	assert.Equal(t, once, twice)
}
