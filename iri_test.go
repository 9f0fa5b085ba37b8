package lodcache

import "testing"

func TestGraphIRIStripsFragment(t *testing.T) {
	got, err := GraphIRI("http://ex/a#frag")
	if err != nil {
		t.Fatalf("GraphIRI: %v", err)
	}
	if got != "http://ex/a" {
		t.Fatalf("GraphIRI = %q, want %q", got, "http://ex/a")
	}
}

func TestGraphIRINoSchemeErrors(t *testing.T) {
	if _, err := GraphIRI("/just/a/path"); err == nil {
		t.Fatal("expected an error for an IRI with no scheme")
	}
}

func TestScheme(t *testing.T) {
	cases := map[string]string{
		"HTTP://ex/a":  "http",
		"file:///x":    "file",
		"jar:file:a!/b": "jar",
	}
	for in, want := range cases {
		if got := Scheme(in); got != want {
			t.Fatalf("Scheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNamespaceRetainsFragmentContext(t *testing.T) {
	if got := Namespace("http://ex/a#b"); got != "http://ex/a#" {
		t.Fatalf("Namespace = %q, want %q", got, "http://ex/a#")
	}
	if got := Namespace("http://ex/a"); got != "http://ex/a" {
		t.Fatalf("Namespace = %q, want unchanged %q", got, "http://ex/a")
	}
}
