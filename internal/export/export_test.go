package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDocument_Layout(t *testing.T) {
	w := NewWriter()
	w.WriteDocument(Document{
		Title: "Fitness Plan",
		Sections: []Section{
			{Heading: "Goals", Body: "Lose weight"},
			{Heading: "Plan", Body: "Day 1: squats\nDay 2: rest"},
		},
	})
	out := w.String()

	if !strings.HasPrefix(out, "# Fitness Plan\n") {
		t.Fatalf("output = %q", out)
	}
	for _, want := range []string{"## Goals", "Lose weight", "## Plan", "Day 1: squats\nDay 2: rest"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestWriter_PaginatesLongBody(t *testing.T) {
	long := strings.TrimSuffix(strings.Repeat("line\n", 100), "\n")
	w := NewWriter()
	w.WriteDocument(Document{Sections: []Section{{Body: long}}})
	out := w.String()

	if !strings.Contains(out, "*Page 2*") {
		t.Fatal("expected a page break")
	}
	if strings.Contains(out, "*Page 4*") {
		t.Fatalf("too many page breaks:\n%s", out)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	doc := Document{Title: "Daily Plan", Sections: []Section{{Body: "stretch"}}}
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "# Daily Plan") {
		t.Fatalf("content = %q", data)
	}
}
