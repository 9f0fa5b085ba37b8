// Package defaults wires the concrete dereferencer/RDFizer subpackages
// into a *lodcache.Engine, playing the role of the original source's
// createDefault(store) factory (§4.8). It lives outside the lodcache
// package specifically to avoid an import cycle: httpderef and friends
// import lodcache for its collaborator types, so lodcache cannot import
// them back.
package defaults

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fortytwonet/lodcache"
	"github.com/fortytwonet/lodcache/dereference/filederef"
	"github.com/fortytwonet/lodcache/dereference/httpderef"
	"github.com/fortytwonet/lodcache/dereference/jarderef"
	"github.com/fortytwonet/lodcache/rdfize/imageexif"
	"github.com/fortytwonet/lodcache/rdfize/ntriples"
	"github.com/fortytwonet/lodcache/rdfize/rdfxml"
)

// Wire registers the http/https, file, and jar dereferencers and the
// n-triples, RDF/XML, and image-EXIF-placeholder RDFizers against engine,
// at the qualities createDefault used (§4.8):
//
//   - application/rdf+xml   1.0
//   - text/xml              0.25
//   - application/n-triples 0.5
//   - text/plain            0.5
//   - image/jpeg, image/tiff, image/tiff-fx  0.4
func Wire(engine *lodcache.Engine, httpClient *http.Client, log zerolog.Logger) error {
	nt := ntriples.New(engine.Config().DatatypeHandling)
	if err := engine.RegisterRDFizer("application/n-triples", nt, 0.5, ntriples.Name); err != nil {
		return err
	}
	if err := engine.RegisterRDFizer("text/plain", nt, 0.5, ntriples.Name); err != nil {
		return err
	}

	rx := rdfxml.New()
	if err := engine.RegisterRDFizer("application/rdf+xml", rx, 1.0, rdfxml.Name); err != nil {
		return err
	}
	if err := engine.RegisterRDFizer("text/xml", rx, 0.25, rdfxml.Name); err != nil {
		return err
	}

	img := imageexif.New()
	for _, mt := range []string{"image/jpeg", "image/tiff", "image/tiff-fx"} {
		if err := engine.RegisterRDFizer(mt, img, imageexif.Quality, imageexif.Name); err != nil {
			return err
		}
	}

	engine.RegisterDereferencer("file", filederef.New(), filederef.Name)
	engine.RegisterDereferencer("jar", jarderef.New(), jarderef.Name)

	httpDref := httpderef.New(httpClient, engine.AcceptHeader(), engine.RedirectManager(), engine.IsFresh, log)
	engine.RegisterDereferencer("http", httpDref, httpderef.Name)
	engine.RegisterDereferencer("https", httpDref, httpderef.Name)

	return nil
}
