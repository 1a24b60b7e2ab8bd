package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

func writeNotebook(t *testing.T, path string, nb *notebook.Notebook) {
	t.Helper()
	require.NoError(t, nb.WriteFile(path))
}

func gradeNotebooks(t *testing.T, placeholder, submitted string, tests map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	canonicalPath := filepath.Join(dir, "canonical.ipynb")
	submissionPath := filepath.Join(dir, "submission.ipynb")

	writeNotebook(t, canonicalPath, &notebook.Notebook{
		NBFormat: 4,
		Cells: []*notebook.Cell{{
			Type:   "code",
			Source: placeholder,
			Metadata: map[string]any{
				notebook.MetadataExerciseID:  "add",
				notebook.MetadataInlineTests: tests,
			},
		}},
	})
	writeNotebook(t, submissionPath, &notebook.Notebook{
		NBFormat: 4,
		Cells: []*notebook.Cell{{
			Type:     "code",
			Source:   submitted,
			Metadata: map[string]any{notebook.MetadataExerciseID: "add"},
		}},
	})

	return runGradeOn(t, canonicalPath, submissionPath)
}

func runGradeOn(t *testing.T, masterPath, submissionPath string) string {
	t.Helper()
	CLI.Grade.Master = masterPath
	CLI.Grade.Submission = submissionPath
	CLI.Grade.Context = ""
	CLI.Grade.Record = ""
	CLI.Grade.Timeout = 10 * time.Second

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	gradeErr := runGrade()

	os.Stdout = orig
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, gradeErr)
	return string(out)
}

const addPlaceholder = "func Add(a, b int) int {\n\tpanic(\"implement me\")\n}\n"

func TestRunGrade_CorrectSubmission_FullGrade(t *testing.T) {
	out := gradeNotebooks(t,
		addPlaceholder,
		"func Add(a, b int) int {\n\treturn a + b\n}\n",
		map[string]string{"test_add": "if Add(2, 3) != 5 {\n\tpanic(\"wrong sum\")\n}"},
	)
	assert.Equal(t, `{"ok":true,"grade":100,"detail":"1/1 submissions, 1/1 tests passed"}`+"\n", out)
}

func TestRunGrade_WrongSubmission_ZeroGrade(t *testing.T) {
	out := gradeNotebooks(t,
		addPlaceholder,
		"func Add(a, b int) int {\n\treturn a * b\n}\n",
		map[string]string{"test_add": "if Add(2, 3) != 5 {\n\tpanic(\"wrong sum\")\n}"},
	)
	assert.Equal(t, `{"ok":true,"grade":0,"detail":"1/1 submissions, 0/1 tests passed"}`+"\n", out)
}

func TestRunGrade_UntouchedPlaceholder_NoSubmissions(t *testing.T) {
	out := gradeNotebooks(t,
		addPlaceholder,
		addPlaceholder,
		map[string]string{"test_add": "Add(1, 1)"},
	)
	assert.Equal(t, `{"ok":true,"grade":0,"detail":"No submissions"}`+"\n", out)
}

func TestRunGrade_RawMasterWithMarkers_TransformedBeforeGrading(t *testing.T) {
	dir := t.TempDir()
	masterPath := filepath.Join(dir, "master.ipynb")
	submissionPath := filepath.Join(dir, "submission.ipynb")

	writeNotebook(t, masterPath, &notebook.Notebook{
		NBFormat: 4,
		Cells: []*notebook.Cell{
			{
				Type: "code",
				Source: "%%solution\n" +
					"# EXERCISE_ID: 'add'\n" +
					"func Add(a, b int) int {\n" +
					"\t# BEGIN SOLUTION\n" +
					"\treturn a + b\n" +
					"\t# END SOLUTION\n" +
					"}\n",
			},
			{
				Type:   "code",
				Source: "%%inlinetest test_add\nif Add(2, 3) != 5 {\n\tpanic(\"wrong sum\")\n}",
			},
		},
	})
	writeNotebook(t, submissionPath, &notebook.Notebook{
		NBFormat: 4,
		Cells: []*notebook.Cell{{
			Type:     "code",
			Source:   "func Add(a, b int) int {\n\treturn a + b\n}\n",
			Metadata: map[string]any{notebook.MetadataExerciseID: "add"},
		}},
	})

	out := runGradeOn(t, masterPath, submissionPath)
	assert.Equal(t, `{"ok":true,"grade":100,"detail":"1/1 submissions, 1/1 tests passed"}`+"\n", out)
}

func TestRunGrade_MissingFile_Error(t *testing.T) {
	CLI.Grade.Master = filepath.Join(t.TempDir(), "missing.ipynb")
	CLI.Grade.Submission = "also-missing.ipynb"
	assert.Error(t, runGrade())
}
