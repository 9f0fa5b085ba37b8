package defaults

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fortytwonet/lodcache"
	"github.com/fortytwonet/lodcache/triplestore/sqlite"
)

func TestWireRegistersDereferencersAndRdfizersAndAcceptHeader(t *testing.T) {
	conn, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	engine, err := lodcache.New(conn, lodcache.Config{})
	if err != nil {
		t.Fatalf("lodcache.New: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	if err := Wire(engine, nil, zerolog.Nop()); err != nil {
		t.Fatalf("Wire: %v", err)
	}

	got := engine.AcceptHeader()
	if got == "" {
		t.Fatal("AcceptHeader is empty after Wire; RDFizers were not registered before dereferencers")
	}
	if !strings.HasPrefix(got, "application/rdf+xml") {
		t.Fatalf("AcceptHeader = %q, want highest-quality application/rdf+xml first", got)
	}
	for _, mt := range []string{"application/rdf+xml", "application/n-triples", "text/plain", "text/xml", "image/jpeg", "image/tiff", "image/tiff-fx"} {
		if !strings.Contains(got, mt) {
			t.Fatalf("AcceptHeader %q missing media type %q", got, mt)
		}
	}
}
