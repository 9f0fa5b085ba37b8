package lodcache

import (
	"fmt"
	"net/url"
	"strings"
)

// GraphIRI returns the fragment-stripped form of iri, used as both the
// retrieval IRI and the named graph identifier (§3).
func GraphIRI(iri string) (string, error) {
	u, err := url.Parse(iri)
	if err != nil {
		return "", fmt.Errorf("invalid IRI %q: %w", iri, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("invalid IRI %q: no scheme", iri)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// Scheme returns the lowercased scheme of an IRI, or "" if it cannot be
// parsed.
func Scheme(iri string) string {
	u, err := url.Parse(iri)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Namespace returns the namespace portion of an IRI: everything up to and
// including the last '#', or the whole IRI if it contains none. Used as the
// base IRI for relative-reference resolution during RDFization (§4.7 step 9),
// which intentionally retains the fragment context of the *original* IRI
// rather than the fragment-stripped retrieval IRI.
func Namespace(iri string) string {
	if i := strings.LastIndexByte(iri, '#'); i >= 0 {
		return iri[:i+1]
	}
	return iri
}
