// Package imageexif is a deliberately minimal lodcache.RDFizer for
// image/jpeg, image/tiff, and image/tiff-fx, matching createDefault's
// registration of an image RDFizer at low quality (§4.8). It does not
// attempt real EXIF extraction: spec.md §1 keeps "image/EXIF RDFizers" out
// of scope, and no EXIF library appears in the retrieved example pack
// (SPEC_FULL.md §C). Registering it anyway keeps content negotiation
// working the way the original does — an image request is answered, it
// simply carries no statements.
package imageexif

import (
	"io"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic RDFizer name recorded on CacheEntry.Rdfizer.
const Name = "imageexif"

// Quality is the content-negotiation quality createDefault registers this
// RDFizer at. The registry holds one RDFizer per media type, so this only
// sets how the image media types rank in the Accept header.
const Quality = 0.4

// Rdfizer drains the input stream and reports Success without emitting any
// statements.
type Rdfizer struct{}

// New constructs a Rdfizer.
func New() *Rdfizer {
	return &Rdfizer{}
}

// Rdfize discards input and reports success with no statements.
func (r *Rdfizer) Rdfize(input io.Reader, handler lodcache.StatementHandler, baseIRI string) lodcache.Status {
	if err := handler.StartRDF(); err != nil {
		return lodcache.StatusFailure
	}
	if _, err := io.Copy(io.Discard, input); err != nil {
		return lodcache.StatusParseError
	}
	if err := handler.EndRDF(); err != nil {
		return lodcache.StatusFailure
	}
	return lodcache.StatusSuccess
}
