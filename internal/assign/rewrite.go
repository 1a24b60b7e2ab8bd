package assign

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/coursebuilder/internal/markers"
)

// DefectKind classifies non-fatal content defects found while rewriting a
// cell. Defects are reported to the caller and logged; they never abort the
// document transformation.
type DefectKind string

const (
	// DefectUnterminatedSolution is a # BEGIN SOLUTION with no matching
	// # END SOLUTION before the end of the cell.
	DefectUnterminatedSolution DefectKind = "unterminated_solution"
	// DefectHalfPairedPrompt is a prompt region with only a begin or only an
	// end marker. The region is left untouched so the defect stays visible.
	DefectHalfPairedPrompt DefectKind = "half_paired_prompt"
	// DefectInvertedPrompt is a prompt begin marker that ends after its
	// paired end marker starts. The default prompt is used instead.
	DefectInvertedPrompt DefectKind = "inverted_prompt"
)

// Defect describes one non-fatal content defect in a cell.
type Defect struct {
	Kind   DefectKind
	Detail string
}

func (d Defect) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}

// defaultPromptSuffix is what replaces a solution region when no prompt has
// been declared: the region's own indentation followed by an ellipsis.
const defaultPromptSuffix = "...\n"

// extractPrompt cuts the first prompt region out of segment and returns its
// enclosed text. When no well-formed region exists the segment is returned
// unmodified; half-paired or inverted markers additionally yield a defect.
func extractPrompt(segment string) (string, string, bool, *Defect) {
	begin := markers.FindPromptBegin(segment)
	end := markers.FindPromptEnd(segment)
	switch {
	case begin != nil && end != nil:
		if begin[1] > end[0] {
			return segment, "", false, &Defect{
				Kind:   DefectInvertedPrompt,
				Detail: "END PROMPT precedes BEGIN PROMPT",
			}
		}
		prompt := segment[begin[1]:end[0]]
		return segment[:begin[0]] + segment[end[1]:], prompt, true, nil
	case begin != nil || end != nil:
		return segment, "", false, &Defect{
			Kind:   DefectHalfPairedPrompt,
			Detail: "prompt region is missing its matching marker",
		}
	default:
		return segment, "", false, nil
	}
}

// extractPrompts removes every well-formed prompt region from segment. The
// last region's text wins when several are declared. The boolean reports
// whether any prompt was extracted.
func extractPrompts(segment string) (string, string, bool, []Defect) {
	var (
		prompt  string
		found   bool
		defects []Defect
	)
	for {
		cleaned, p, ok, d := extractPrompt(segment)
		if d != nil {
			defects = append(defects, *d)
			break
		}
		if !ok {
			break
		}
		segment, prompt, found = cleaned, p, true
	}
	return segment, prompt, found, defects
}

// rewriteSolutionRegions replaces every # BEGIN SOLUTION / # END SOLUTION
// region with the active prompt. Prompt regions apply forward: a prompt
// declared before a solution region becomes the replacement for that region
// and stays active for later regions until a new prompt is declared. Regions
// with no declared prompt fall back to their own indentation followed by
// "...".
//
// An unterminated begin marker is a non-fatal defect: the remaining text is
// emitted unchanged.
func rewriteSolutionRegions(source string) (string, []Defect) {
	if markers.FindSolutionBegin(source) == nil {
		return source, nil
	}
	var (
		out      strings.Builder
		defects  []Defect
		declared string
		haveDecl bool
	)
	for {
		m := markers.FindSolutionBegin(source)
		if m == nil {
			// Trailing prompt regions are authoring residue; they are
			// removed from the visible code like any used prompt region.
			cleaned, _, _, ds := extractPrompts(source)
			defects = append(defects, ds...)
			out.WriteString(cleaned)
			return out.String(), defects
		}
		prefix, p, found, ds := extractPrompts(source[:m[0]])
		defects = append(defects, ds...)
		if found {
			declared, haveDecl = p, true
		}
		out.WriteString(prefix)

		post := source[m[0]:]
		e := markers.FindSolutionEnd(post)
		if e == nil {
			defects = append(defects, Defect{
				Kind:   DefectUnterminatedSolution,
				Detail: "BEGIN SOLUTION has no matching END SOLUTION",
			})
			out.WriteString(post)
			return out.String(), defects
		}
		prompt := declared
		if !haveDecl {
			prompt = source[m[2]:m[3]] + defaultPromptSuffix
		}
		out.WriteString(prompt)
		source = post[e[1]:]
	}
}

// RewriteSource applies the full marker-driven rewrite to one code cell:
// the %%solution magic line is stripped, the exercise-id marker line is
// deleted, and solution regions are replaced by prompts.
func RewriteSource(source string) (string, []Defect) {
	source, _ = markers.StripSolutionMagic(source)
	_, source, _ = markers.ExtractExerciseID(source)
	return rewriteSolutionRegions(source)
}
