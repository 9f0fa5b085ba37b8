package lodcache

import (
	"io"
	"testing"
)

type stubRDFizerForAccept struct{}

func (stubRDFizerForAccept) Rdfize(input io.Reader, handler StatementHandler, baseIRI string) Status {
	return StatusSuccess
}

func TestAcceptHeaderOrdering(t *testing.T) {
	r := NewRDFizerRegistry(nil)
	if err := r.Register("text/xml", stubRDFizerForAccept{}, 0.25, "xml"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("application/rdf+xml", stubRDFizerForAccept{}, 1.0, "rdfxml"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("text/turtle", stubRDFizerForAccept{}, 0.8, "turtle"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got := r.AcceptHeader()
	want := "application/rdf+xml, text/turtle;q=0.8, text/xml;q=0.25"
	if got != want {
		t.Fatalf("AcceptHeader = %q, want %q", got, want)
	}
}

func TestRegisterInvalidQuality(t *testing.T) {
	r := NewRDFizerRegistry(nil)
	if err := r.Register("text/xml", stubRDFizerForAccept{}, 0, "xml"); err == nil {
		t.Fatal("expected an error for quality 0")
	}
	if err := r.Register("text/xml", stubRDFizerForAccept{}, 1.5, "xml"); err == nil {
		t.Fatal("expected an error for quality > 1")
	}
}
