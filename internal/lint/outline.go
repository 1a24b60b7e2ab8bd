package lint

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

// Heading is one markdown heading found in a notebook.
type Heading struct {
	Cell  int
	Level int
	Text  string
}

// Outline extracts the heading structure of all markdown cells in order.
func Outline(nb *notebook.Notebook) []Heading {
	md := goldmark.New()
	var headings []Heading

	for i, cell := range nb.Cells {
		if cell.Type != "markdown" {
			continue
		}
		source := []byte(cell.Source)
		root := md.Parser().Parse(text.NewReader(source))

		_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if !entering {
				return gmast.WalkContinue, nil
			}
			if h, ok := n.(*gmast.Heading); ok {
				headings = append(headings, Heading{
					Cell:  i,
					Level: h.Level,
					Text:  headingText(h, source),
				})
			}
			return gmast.WalkContinue, nil
		})
	}
	return headings
}

func headingText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}

// checkTitle warns when no markdown cell carries a level-one heading, which
// leaves the rendered notebook without a title.
func checkTitle(res *Result, nb *notebook.Notebook) {
	for _, h := range Outline(nb) {
		if h.Level == 1 {
			return
		}
	}
	res.add(0, SeverityWarning, "notebook-title",
		"no level-one markdown heading found")
}
