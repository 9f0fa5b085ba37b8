package lodcache

import "io"

// Representation is an opaque, read-once value produced by a Dereferencer: a
// declared media type plus a byte-stream handle. Consumers must read to EOF
// or close it; re-reads are not permitted (§3).
type Representation struct {
	MediaType string
	Stream    io.ReadCloser
}

// Dereferencer fetches a Representation for a retrieval IRI. Returning a nil
// Representation and a nil error signals "no new work" — e.g. the server
// indicated not-modified, or retrieval would be redundant because of a
// redirect to an already-fresh target; the orchestrator interprets that as
// RedirectsToCached. A non-nil error is classified as DereferencerError (§4.4, §6).
type Dereferencer interface {
	Dereference(retrievalIRI string) (*Representation, error)
}

// RDFizer turns a Representation's byte stream into a statement sequence via
// handler. It must emit statements through handler only and never touch the
// triple store directly. Implementations must be restartable across
// different inputs (§4.5, §6).
type RDFizer interface {
	Rdfize(input io.Reader, handler StatementHandler, baseIRI string) Status
}
