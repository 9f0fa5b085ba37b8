package rdfxml

import (
	"strings"
	"testing"

	"github.com/fortytwonet/lodcache"
)

type collector struct {
	lodcache.BaseHandler
	statements []lodcache.Statement
}

func (c *collector) HandleStatement(st lodcache.Statement) error {
	c.statements = append(c.statements, st)
	return nil
}

func TestRdfizeParsesDescriptionAndProperties(t *testing.T) {
	input := `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <rdf:Description rdf:about="http://ex/doc">
    <dc:title>An Example</dc:title>
    <dc:creator rdf:resource="http://ex/alice"/>
  </rdf:Description>
</rdf:RDF>`

	c := &collector{}
	r := New()
	status := r.Rdfize(strings.NewReader(input), c, "http://ex/")

	if status != lodcache.StatusSuccess {
		t.Fatalf("status = %v, want Success", status)
	}
	if len(c.statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(c.statements))
	}
	if c.statements[0].Subject != "http://ex/doc" {
		t.Fatalf("subject = %q, want %q", c.statements[0].Subject, "http://ex/doc")
	}
	if !c.statements[0].ObjectIsLiteral || c.statements[0].Object != "An Example" {
		t.Fatalf("title statement parsed wrong: %+v", c.statements[0])
	}
	if c.statements[1].Object != "http://ex/alice" || c.statements[1].ObjectIsLiteral {
		t.Fatalf("resource statement parsed wrong: %+v", c.statements[1])
	}
}

func TestRdfizeMintsBlankNodeForMissingAbout(t *testing.T) {
	input := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://ex/ns#">
  <rdf:Description>
    <ex:p>v</ex:p>
  </rdf:Description>
</rdf:RDF>`

	c := &collector{}
	r := New()
	status := r.Rdfize(strings.NewReader(input), c, "http://ex/")
	if status != lodcache.StatusSuccess {
		t.Fatalf("status = %v, want Success", status)
	}
	if len(c.statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(c.statements))
	}
	if !c.statements[0].SubjectIsBNode || c.statements[0].Subject == "" {
		t.Fatalf("expected a minted blank node subject, got %+v", c.statements[0])
	}
}

func TestRdfizeMalformedXMLIsParseError(t *testing.T) {
	c := &collector{}
	r := New()
	status := r.Rdfize(strings.NewReader("<rdf:RDF><rdf:Description>"), c, "http://ex/")
	if status != lodcache.StatusParseError {
		t.Fatalf("status = %v, want ParseError", status)
	}
}
