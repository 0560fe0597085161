// Package diff computes textual diffs between document content states.
package diff

import (
	"fmt"
	"html"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Stats counts changed line-groups from an edit-opcode comparison. Each
// insert, delete or replace opcode counts once, regardless of how many
// physical lines it spans.
type Stats struct {
	AddedGroups    int `json:"added_groups"`
	RemovedGroups  int `json:"removed_groups"`
	ModifiedGroups int `json:"modified_groups"`
}

// Total returns the total number of changed groups.
func (s Stats) Total() int {
	return s.AddedGroups + s.RemovedGroups + s.ModifiedGroups
}

// Result holds every rendering of a single comparison.
type Result struct {
	Unified string
	HTML    string
	Stats   Stats
}

// Compute compares original and proposed content and returns a unified diff
// with 3 lines of context, an HTML side-by-side rendering, and group
// statistics. Empty content is valid and treated as zero lines.
func Compute(original, proposed string) (*Result, error) {
	a := splitLines(original)
	b := splitLines(proposed)

	unified := ""
	if original != proposed {
		ud := difflib.UnifiedDiff{
			A:        a,
			B:        b,
			FromFile: "original",
			ToFile:   "proposed",
			Context:  3,
		}
		var err error
		unified, err = difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return nil, fmt.Errorf("failed to build unified diff: %w", err)
		}
	}

	opcodes := difflib.NewMatcher(a, b).GetOpCodes()

	var stats Stats
	for _, op := range opcodes {
		switch op.Tag {
		case 'i':
			stats.AddedGroups++
		case 'd':
			stats.RemovedGroups++
		case 'r':
			stats.ModifiedGroups++
		}
	}

	return &Result{
		Unified: unified,
		HTML:    renderHTML(a, b, opcodes),
		Stats:   stats,
	}, nil
}

// splitLines splits content into lines for comparison. Empty content has no
// lines at all, so an empty-vs-empty comparison produces no opcodes.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return difflib.SplitLines(content)
}

// renderHTML builds a side-by-side table from the opcodes. Unchanged lines
// appear on both sides; removals only on the left, additions only on the right.
func renderHTML(a, b []string, opcodes []difflib.OpCode) string {
	var sb strings.Builder
	sb.WriteString(`<table class="diff">`)

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for i := 0; i < op.I2-op.I1; i++ {
				row(&sb, "equal", a[op.I1+i], b[op.J1+i])
			}
		case 'r':
			left := op.I2 - op.I1
			right := op.J2 - op.J1
			n := left
			if right > n {
				n = right
			}
			for i := 0; i < n; i++ {
				var l, r string
				if i < left {
					l = a[op.I1+i]
				}
				if i < right {
					r = b[op.J1+i]
				}
				row(&sb, "replace", l, r)
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				row(&sb, "delete", a[i], "")
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				row(&sb, "insert", "", b[j])
			}
		}
	}

	sb.WriteString(`</table>`)
	return sb.String()
}

func row(sb *strings.Builder, class, left, right string) {
	fmt.Fprintf(sb, `<tr class=%q><td>%s</td><td>%s</td></tr>`,
		class,
		html.EscapeString(strings.TrimRight(left, "\n")),
		html.EscapeString(strings.TrimRight(right, "\n")),
	)
}

// kindLabels maps change kinds to the noun used in summaries.
var kindLabels = map[string]string{
	"edit":              "Content edit",
	"structural_change": "Structural change",
	"formatting":        "Formatting change",
	"addition":          "Content addition",
	"deletion":          "Content deletion",
	"replacement":       "Content replacement",
}

// Summarize produces a human sentence for a comparison, keyed by change kind,
// e.g. "Content edit: 2 line(s) added, 1 line(s) removed".
func Summarize(changeKind string, stats Stats) string {
	label, ok := kindLabels[changeKind]
	if !ok {
		label = "Content change"
	}

	if stats.Total() == 0 {
		return label + ": no changes"
	}

	var parts []string
	if stats.AddedGroups > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) added", stats.AddedGroups))
	}
	if stats.RemovedGroups > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) removed", stats.RemovedGroups))
	}
	if stats.ModifiedGroups > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) modified", stats.ModifiedGroups))
	}

	return label + ": " + strings.Join(parts, ", ")
}

// Unified returns just the unified diff between two content states, or an
// empty string when they are identical. Used by the version store to record
// the delta from the preceding snapshot.
func Unified(previous, current string) (string, error) {
	res, err := Compute(previous, current)
	if err != nil {
		return "", err
	}
	return res.Unified, nil
}
