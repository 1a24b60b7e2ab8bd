package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_WrapError_PreservesCauseChain(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapError(cause, CategoryNotebook, "failed to write student notebook").
		WithContext("path", "student.ipynb").
		Build()

	require.ErrorIs(t, err, cause)
	require.Equal(t, CategoryNotebook, err.Category())
	require.Contains(t, err.Error(), "disk full")

	v, ok := err.Context().Get("path")
	require.True(t, ok)
	require.Equal(t, "student.ipynb", v)
}

func TestAuthoringError_DefaultsToFatal(t *testing.T) {
	err := AuthoringError("test declared before any exercise").Build()
	require.True(t, err.IsFatal())
	require.Equal(t, CategoryAuthoring, err.Category())
}

func TestAsClassified_UnclassifiedError_ReturnsFalse(t *testing.T) {
	_, ok := AsClassified(errors.New("plain"))
	require.False(t, ok)
	require.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 1, a.ExitCodeFor(errors.New("plain")))
	require.Equal(t, 2, a.ExitCodeFor(AuthoringError("bad markers").Build()))
	require.Equal(t, 3, a.ExitCodeFor(NotebookError("bad json").Build()))
	require.Equal(t, 7, a.ExitCodeFor(ConfigError("missing file").Build()))
}

func TestClassifiedError_WithContext_DoesNotMutateOriginal(t *testing.T) {
	base := GradingError("no exercises found").Build()
	derived := base.WithContext("document", "master.ipynb")

	_, ok := base.Context().Get("document")
	require.False(t, ok)
	v, ok := derived.Context().Get("document")
	require.True(t, ok)
	require.Equal(t, "master.ipynb", v)
}
