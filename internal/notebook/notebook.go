// Package notebook provides the in-memory document model for Jupyter-style
// notebooks: an ordered list of cells plus document-level metadata, with JSON
// (de)serialization compatible with the .ipynb format.
package notebook

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
)

// Metadata keys coursebuilder attaches to exercise cells.
const (
	MetadataExerciseID  = "exercise_id"
	MetadataInlineTests = "inlinetests"
)

// Notebook represents a parsed notebook document.
//
// Transformations never mutate a Notebook in place; they produce a new one
// (see MapCells). Document-level fields other than cells are carried over
// unchanged.
type Notebook struct {
	// NBFormat is the nbformat field.
	NBFormat int
	// NBFormatMinor is the nbformat_minor field.
	NBFormatMinor int
	// Metadata is the document-level metadata map.
	Metadata map[string]any
	// Cells is the ordered list of cells.
	Cells []*Cell

	// extra holds document-level JSON fields other than nbformat,
	// nbformat_minor, metadata and cells. They are written back verbatim.
	extra map[string]any
}

// Cell represents one notebook cell.
type Cell struct {
	// Type is the cell_type field: "code", "markdown", or anything else.
	Type string
	// Source is the full cell text (lines joined).
	Source string
	// Metadata is the cell-level metadata map, nil when absent.
	Metadata map[string]any

	// raw is the original parsed JSON of the cell. Cells whose type is
	// neither code nor markdown are serialized back from raw, verbatim.
	raw map[string]any
}

// ExerciseID returns the exercise_id metadata value, or "" when absent.
func (c *Cell) ExerciseID() string {
	if c.Metadata == nil {
		return ""
	}
	id, _ := c.Metadata[MetadataExerciseID].(string)
	return id
}

// InlineTests returns the inlinetests metadata as a name-to-source map.
// It returns nil when the cell carries no embedded tests.
func (c *Cell) InlineTests() map[string]string {
	if c.Metadata == nil {
		return nil
	}
	switch v := c.Metadata[MetadataInlineTests].(type) {
	case map[string]string:
		return v
	case map[string]any:
		tests := make(map[string]string, len(v))
		for name, src := range v {
			if s, ok := src.(string); ok {
				tests[name] = s
			}
		}
		return tests
	default:
		return nil
	}
}

// ParseFile loads a notebook file and parses it into a Notebook.
func ParseFile(path string) (*Notebook, error) {
	// #nosec G304 -- path comes from CLI arguments or internal callers.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to read notebook").
			WithContext("path", path).
			Build()
	}
	n, err := Parse(b)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return n, nil
}

// Parse parses notebook JSON into a Notebook.
func Parse(b []byte) (*Notebook, error) {
	data := make(map[string]any)
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "invalid notebook JSON").Build()
	}
	ret := &Notebook{extra: make(map[string]any)}
	for k, v := range data {
		switch k {
		case "nbformat":
			if f, ok := v.(float64); ok {
				ret.NBFormat = int(f)
			}
		case "nbformat_minor":
			if f, ok := v.(float64); ok {
				ret.NBFormatMinor = int(f)
			}
		case "metadata":
			ret.Metadata, _ = v.(map[string]any)
		case "cells":
			// Parsed below so cell errors carry their index.
		default:
			ret.extra[k] = v
		}
	}
	if raw, ok := data["cells"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, errors.NewError(errors.CategoryNotebook, "cells is not a list").
				WithContext("type", reflect.TypeOf(raw).String()).
				Build()
		}
		for i, item := range list {
			cell, err := parseCell(item)
			if err != nil {
				if classified, ok := errors.AsClassified(err); ok {
					return nil, classified.WithContext("cell", i)
				}
				return nil, err
			}
			ret.Cells = append(ret.Cells, cell)
		}
	}
	return ret, nil
}

func parseCell(item any) (*Cell, error) {
	data, ok := item.(map[string]any)
	if !ok {
		return nil, errors.NewError(errors.CategoryNotebook, "cell is not an object").
			WithContext("type", reflect.TypeOf(item).String()).
			Build()
	}
	cell := &Cell{raw: data}
	cell.Type, _ = data["cell_type"].(string)
	if v, ok := data["metadata"]; ok {
		cell.Metadata, _ = v.(map[string]any)
	}
	source, err := parseText(data["source"])
	if err != nil {
		return nil, err
	}
	cell.Source = source
	return cell, nil
}

// parseText accepts the two encodings the ipynb format allows for textual
// fields: a plain string, or a list of line strings to be concatenated.
func parseText(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	list, ok := v.([]any)
	if !ok {
		return "", errors.NewError(errors.CategoryNotebook, "cell source is neither a string nor a list").
			WithContext("type", reflect.TypeOf(v).String()).
			Build()
	}
	var sb strings.Builder
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return "", errors.NewError(errors.CategoryNotebook, "cell source list holds a non-string").
				WithContext("type", reflect.TypeOf(item).String()).
				Build()
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// marshalText splits a text string into the line-list encoding used by
// the ipynb format, keeping the trailing newline on every line but the last.
func marshalText(text string) []any {
	lines := strings.Split(text, "\n")
	ret := make([]any, 0, len(lines))
	for i, line := range lines {
		if i == len(lines)-1 {
			ret = append(ret, line)
			break
		}
		ret = append(ret, line+"\n")
	}
	return ret
}

// json returns the JSON-ready representation of a cell. Cells of a kind other
// than code or markdown are emitted from their original parsed form, verbatim.
func (c *Cell) json() map[string]any {
	if c.Type != "code" && c.Type != "markdown" && c.raw != nil {
		return c.raw
	}
	ret := make(map[string]any)
	ret["cell_type"] = c.Type
	if c.Metadata != nil {
		ret["metadata"] = c.Metadata
	} else {
		ret["metadata"] = map[string]any{}
	}
	if c.Type == "code" {
		ret["execution_count"] = nil
		ret["outputs"] = []any{}
	}
	ret["source"] = marshalText(c.Source)
	return ret
}

// Marshal produces JSON suitable for writing to an .ipynb file.
func (n *Notebook) Marshal() ([]byte, error) {
	out := make(map[string]any, len(n.extra)+4)
	for k, v := range n.extra {
		out[k] = v
	}
	out["nbformat"] = n.NBFormat
	out["nbformat_minor"] = n.NBFormatMinor
	if n.Metadata != nil {
		out["metadata"] = n.Metadata
	} else {
		out["metadata"] = map[string]any{}
	}
	cells := make([]any, 0, len(n.Cells))
	for _, cell := range n.Cells {
		cells = append(cells, cell.json())
	}
	out["cells"] = cells
	b, err := json.Marshal(out)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to marshal notebook").Build()
	}
	return b, nil
}

// WriteFile marshals the notebook and writes it to path.
func (n *Notebook) WriteFile(path string) error {
	b, err := n.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryNotebook, "failed to write notebook").
			WithContext("path", path).
			Build()
	}
	return nil
}

// MapCells runs mapFunc on each cell and assembles the returned cells into a
// new Notebook. A nil return drops the cell. Document-level fields are carried
// over unchanged; the input notebook is not modified.
func (n *Notebook) MapCells(mapFunc func(c *Cell) (*Cell, error)) (*Notebook, error) {
	var out []*Cell
	for _, cell := range n.Cells {
		mapped, err := mapFunc(cell)
		if err != nil {
			return nil, err
		}
		if mapped != nil {
			out = append(out, mapped)
		}
	}
	return &Notebook{
		NBFormat:      n.NBFormat,
		NBFormatMinor: n.NBFormatMinor,
		Metadata:      n.Metadata,
		Cells:         out,
		extra:         n.extra,
	}, nil
}
