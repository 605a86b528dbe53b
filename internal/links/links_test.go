package links

import (
	"reflect"
	"testing"
)

func TestExtract_Order(t *testing.T) {
	got := Extract("See [Guide](https://a.com/x) and [Two](http://b.com)")
	want := []Link{
		{Label: "Guide", URL: "https://a.com/x"},
		{Label: "Two", URL: "http://b.com"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtract_NoLinks(t *testing.T) {
	if got := Extract("no links here"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	if got := Extract(""); len(got) != 0 {
		t.Fatalf("expected empty for empty input, got %v", got)
	}
}

func TestExtract_DuplicatesPreserved(t *testing.T) {
	got := Extract("[A](https://a.com) mid [A](https://a.com)")
	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d", len(got))
	}
	if got[0] != got[1] {
		t.Fatalf("duplicates should be identical: %v vs %v", got[0], got[1])
	}
}

func TestExtract_MalformedSkipped(t *testing.T) {
	cases := []string{
		"[no url]",
		"[label](ftp://not-http.com)",
		"[unterminated](https://a.com",
		"(https://bare.com)",
		"[](https://a.com)",
	}
	for _, c := range cases {
		if got := Extract(c); len(got) != 0 {
			t.Errorf("Extract(%q) = %v, expected none", c, got)
		}
	}
}

func TestExtract_SurroundingTextIgnored(t *testing.T) {
	got := Extract("Helpful Resources:\n- [Mayo Clinic](https://mayoclinic.org/diet) is solid.")
	if len(got) != 1 || got[0].Label != "Mayo Clinic" || got[0].URL != "https://mayoclinic.org/diet" {
		t.Fatalf("got %v", got)
	}
}

func TestExtract_Stateless(t *testing.T) {
	in := "[A](https://a.com) [B](http://b.com)"
	first := Extract(in)
	second := Extract(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeat call differs: %v vs %v", first, second)
	}
}
