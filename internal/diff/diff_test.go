package diff

import (
	"strings"
	"testing"
)

func TestCompute_Identical(t *testing.T) {
	res, err := Compute("same\ncontent\n", "same\ncontent\n")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Unified != "" {
		t.Errorf("Unified = %q, want empty for identical content", res.Unified)
	}
	if res.Stats.Total() != 0 {
		t.Errorf("Stats.Total() = %d, want 0", res.Stats.Total())
	}
}

func TestCompute_AppendedParagraph(t *testing.T) {
	res, err := Compute("Hello world.", "Hello world.\nNew paragraph.")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Stats.AddedGroups != 1 {
		t.Errorf("AddedGroups = %d, want 1", res.Stats.AddedGroups)
	}
	if res.Stats.RemovedGroups != 0 || res.Stats.ModifiedGroups != 0 {
		t.Errorf("Stats = %+v, want only one added group", res.Stats)
	}
	if !strings.Contains(res.Unified, "+New paragraph.") {
		t.Errorf("Unified missing added line:\n%s", res.Unified)
	}
	if !strings.Contains(res.Unified, "--- original") || !strings.Contains(res.Unified, "+++ proposed") {
		t.Errorf("Unified missing file headers:\n%s", res.Unified)
	}
}

func TestCompute_ModifiedLine(t *testing.T) {
	res, err := Compute("one\ntwo\nthree\n", "one\n2\nthree\n")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Stats.ModifiedGroups != 1 {
		t.Errorf("ModifiedGroups = %d, want 1", res.Stats.ModifiedGroups)
	}
	if !strings.Contains(res.Unified, "-two") || !strings.Contains(res.Unified, "+2") {
		t.Errorf("Unified missing change:\n%s", res.Unified)
	}
}

func TestCompute_EmptyOriginal(t *testing.T) {
	res, err := Compute("", "brand new\n")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if res.Stats.AddedGroups != 1 {
		t.Errorf("AddedGroups = %d, want 1", res.Stats.AddedGroups)
	}
}

func TestCompute_HTMLEscapes(t *testing.T) {
	res, err := Compute("a < b\n", "a > b\n")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if strings.Contains(res.HTML, "a < b") {
		t.Errorf("HTML contains unescaped content:\n%s", res.HTML)
	}
	if !strings.Contains(res.HTML, "a &lt; b") || !strings.Contains(res.HTML, "a &gt; b") {
		t.Errorf("HTML missing escaped lines:\n%s", res.HTML)
	}
	if !strings.Contains(res.HTML, `<tr class="replace">`) {
		t.Errorf("HTML missing replace row:\n%s", res.HTML)
	}
}

func TestCompute_HTMLSideBySide(t *testing.T) {
	res, err := Compute("keep\ngone\n", "keep\n")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if !strings.Contains(res.HTML, `<tr class="equal"><td>keep</td><td>keep</td></tr>`) {
		t.Errorf("HTML missing equal row:\n%s", res.HTML)
	}
	if !strings.Contains(res.HTML, `<tr class="delete"><td>gone</td><td></td></tr>`) {
		t.Errorf("HTML missing delete row:\n%s", res.HTML)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		stats Stats
		want  string
	}{
		{"no changes", "edit", Stats{}, "Content edit: no changes"},
		{"added", "addition", Stats{AddedGroups: 1}, "Content addition: 1 line(s) added"},
		{"mixed", "edit", Stats{AddedGroups: 2, RemovedGroups: 1}, "Content edit: 2 line(s) added, 1 line(s) removed"},
		{"modified", "formatting", Stats{ModifiedGroups: 3}, "Formatting change: 3 line(s) modified"},
		{"unknown kind", "mystery", Stats{AddedGroups: 1}, "Content change: 1 line(s) added"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.kind, tt.stats)
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnified(t *testing.T) {
	got, err := Unified("a\n", "a\n")
	if err != nil {
		t.Fatalf("Unified() error = %v", err)
	}
	if got != "" {
		t.Errorf("Unified() = %q, want empty for identical content", got)
	}

	got, err = Unified("a\n", "b\n")
	if err != nil {
		t.Fatalf("Unified() error = %v", err)
	}
	if !strings.Contains(got, "-a") || !strings.Contains(got, "+b") {
		t.Errorf("Unified() missing change:\n%s", got)
	}
}
