// Package assign converts a master notebook into the student notebook:
// solutions are replaced by prompts, authoring-only cells are removed, and
// inline tests are extracted into a per-exercise test table that can be
// embedded as cell metadata for grading.
package assign

import (
	"log/slog"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/markers"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// Options controls the document transformation.
type Options struct {
	// EmbedInlineTests extracts %%inlinetest / %%studenttest bodies and
	// embeds them in the exercise cell's metadata. Used when producing the
	// canonical notebook for grading; the plain student notebook does not
	// carry tests.
	EmbedInlineTests bool
}

// TestTable maps exercise id to the tests extracted for that exercise,
// keyed by test name.
type TestTable map[string]map[string]string

// Transform produces the student notebook and the extracted test table from
// a master notebook. The input notebook is not modified.
//
// Structural authoring mistakes (a test appearing before any exercise id)
// are fatal; malformed solution/prompt regions are logged and handled
// best-effort per cell.
func Transform(nb *notebook.Notebook, opts Options) (*notebook.Notebook, TestTable, error) {
	tests := make(TestTable)
	// currentID is the exercise that owns subsequently encountered inline
	// tests. A master-only cell ends the current exercise's scope.
	currentID := ""
	// Emitted exercise cells, so test metadata can be frozen onto them once
	// the whole pass is done.
	exerciseCells := make(map[string]*notebook.Cell)

	out, err := nb.MapCells(func(cell *notebook.Cell) (*notebook.Cell, error) {
		switch cell.Type {
		case "markdown":
			if markers.IsMasterOnly(cell.Source) {
				currentID = ""
				return nil, nil
			}
			// Content passes through unchanged; reserved hook for future
			// markdown cleanup.
			return &notebook.Cell{Type: "markdown", Source: cell.Source, Metadata: cell.Metadata}, nil
		case "code":
			return transformCode(cell, opts, &currentID, tests, exerciseCells)
		default:
			// Cells of other kinds are never inspected for markers.
			return cell, nil
		}
	})
	if err != nil {
		return nil, nil, err
	}

	if opts.EmbedInlineTests {
		for id, cell := range exerciseCells {
			if len(tests[id]) == 0 {
				continue
			}
			frozen := make(map[string]string, len(tests[id]))
			for name, body := range tests[id] {
				frozen[name] = body
			}
			cell.Metadata[notebook.MetadataInlineTests] = frozen
		}
	}
	return out, tests, nil
}

func transformCode(cell *notebook.Cell, opts Options, currentID *string, tests TestTable, exerciseCells map[string]*notebook.Cell) (*notebook.Cell, error) {
	source := cell.Source
	if markers.IsMasterOnly(source) {
		*currentID = ""
		return nil, nil
	}

	if test, remainder, ok := markers.MatchTest(source); ok {
		if opts.EmbedInlineTests {
			if *currentID == "" {
				return nil, errors.AuthoringError("inline test declared before any exercise id").
					WithContext("test", test.Name).
					Build()
			}
			byName := tests[*currentID]
			if byName == nil {
				byName = make(map[string]string)
				tests[*currentID] = byName
			}
			byName[test.Name] = test.Body
		}
		if !test.Student {
			// Inline tests are master-side only.
			return nil, nil
		}
		// Student tests stay visible, minus the magic line.
		source = remainder
	}

	if markers.IsAuthoringOnly(source) {
		return nil, nil
	}

	source, _ = markers.StripSolutionMagic(source)

	metadata := cloneMetadata(cell.Metadata)
	if id, remainder, ok := markers.ExtractExerciseID(source); ok {
		*currentID = id
		source = remainder
		if metadata == nil {
			metadata = make(map[string]any)
		}
		metadata[notebook.MetadataExerciseID] = id
	}

	source, defects := rewriteSolutionRegions(source)
	for _, d := range defects {
		slog.Warn("content defect in code cell", "kind", string(d.Kind), "detail", d.Detail)
	}

	emitted := &notebook.Cell{Type: "code", Source: source, Metadata: metadata}
	if id, ok := metadata[notebook.MetadataExerciseID].(string); ok {
		exerciseCells[id] = emitted
	}
	return emitted, nil
}

func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	ret := make(map[string]any, len(metadata))
	for k, v := range metadata {
		ret[k] = v
	}
	return ret
}
