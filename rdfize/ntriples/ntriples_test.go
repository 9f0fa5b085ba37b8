package ntriples

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

func TestRdfizeParsesBasicTriples(t *testing.T) {
	input := `<http://ex/s> <http://ex/p> <http://ex/o> .
_:b1 <http://ex/p> "hello"@en .
<http://ex/s> <http://ex/p2> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
# a comment
`
	c := &collector{}
	r := New(lodcache.DatatypeIgnore)
	status := r.Rdfize(strings.NewReader(input), c, "http://ex/")

	if status != lodcache.StatusSuccess {
		t.Fatalf("status = %v, want Success", status)
	}
	if len(c.statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(c.statements))
	}

	if c.statements[1].Lang != "en" || c.statements[1].Object != "hello" {
		t.Fatalf("language-tagged literal parsed wrong: %+v", c.statements[1])
	}
	if !c.statements[1].SubjectIsBNode || c.statements[1].Subject != "b1" {
		t.Fatalf("blank node subject parsed wrong: %+v", c.statements[1])
	}
	if c.statements[2].Datatype != "http://www.w3.org/2001/XMLSchema#integer" {
		t.Fatalf("datatype parsed wrong: %+v", c.statements[2])
	}
}

func TestRdfizeMalformedLineIsParseError(t *testing.T) {
	c := &collector{}
	r := New(lodcache.DatatypeIgnore)
	status := r.Rdfize(strings.NewReader("not a valid triple line .\n"), c, "http://ex/")
	if status != lodcache.StatusParseError {
		t.Fatalf("status = %v, want ParseError", status)
	}
}

func TestRdfizeVerifyRejectsBadDatatype(t *testing.T) {
	c := &collector{}
	r := New(lodcache.DatatypeVerify)
	input := `<http://ex/s> <http://ex/p> "x"^^<http://ex/%zz> .` + "\n"
	status := r.Rdfize(strings.NewReader(input), c, "http://ex/")
	if status != lodcache.StatusFailure {
		t.Fatalf("status = %v, want Failure", status)
	}
}
