package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

func parseArgs(t *testing.T, args ...string) string {
	t.Helper()
	parser, err := kong.New(&CLI)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Command()
}

func TestCLI_CommandRouting(t *testing.T) {
	assert.Equal(t, "student <master>", parseArgs(t, "student", "lesson.ipynb"))
	assert.Equal(t, "grade", parseArgs(t, "grade", "-m", "canonical.ipynb", "-s", "sub.ipynb"))
	assert.Equal(t, "tests <master>", parseArgs(t, "tests", "lesson.ipynb"))
	assert.Equal(t, "check <master>", parseArgs(t, "check", "lesson.ipynb"))
	assert.Equal(t, "serve", parseArgs(t, "serve", "-m", "canonical.ipynb"))
	assert.Equal(t, "worker", parseArgs(t, "worker", "-m", "canonical.ipynb"))
}

func TestCLI_GradeRequiresMasterAndSubmission(t *testing.T) {
	parser, err := kong.New(&CLI)
	require.NoError(t, err)
	_, err = parser.Parse([]string{"grade"})
	assert.Error(t, err)
}

func TestCLI_StudentFlags(t *testing.T) {
	parseArgs(t, "student", "lesson.ipynb", "-o", "out.ipynb", "--embed-tests")
	assert.Equal(t, "lesson.ipynb", CLI.Student.Master)
	assert.Equal(t, "out.ipynb", CLI.Student.Output)
	assert.True(t, CLI.Student.EmbedTests)
}

func TestStudentOutputPath(t *testing.T) {
	assert.Equal(t, "lesson1-student.ipynb", studentOutputPath("lesson1.ipynb"))
	assert.Equal(t, "dir/l2-student.ipynb", studentOutputPath("dir/l2.ipynb"))
}

const masterJSON = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "metadata": {"language_info": {"name": "python"}},
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# Lesson 1\n"]},
    {"cell_type": "code", "metadata": {}, "execution_count": null, "outputs": [], "source": [
      "%%solution\n",
      "# EXERCISE_ID: 'add'\n",
      "def add(a, b):\n",
      "    # BEGIN SOLUTION\n",
      "    return a + b\n",
      "    # END SOLUTION\n"
    ]},
    {"cell_type": "code", "metadata": {}, "execution_count": null, "outputs": [], "source": [
      "%%inlinetest test_add\n",
      "assert add(1, 2) == 3\n"
    ]}
  ]
}`

func TestGenerateStudent_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "lesson1.ipynb")
	output := filepath.Join(dir, "student.ipynb")
	require.NoError(t, os.WriteFile(master, []byte(masterJSON), 0o644))

	require.NoError(t, generateStudent(master, output, true))

	student, err := notebook.ParseFile(output)
	require.NoError(t, err)
	require.Len(t, student.Cells, 2)
	assert.Equal(t, "markdown", student.Cells[0].Type)

	exercise := student.Cells[1]
	assert.Equal(t, "def add(a, b):\n    ...\n", exercise.Source)
	assert.Equal(t, "add", exercise.ExerciseID())
	assert.Equal(t, map[string]string{"test_add": "assert add(1, 2) == 3"}, exercise.InlineTests())
}
