// Package filederef is the file: scheme lodcache.Dereferencer (§4.4).
package filederef

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic dereferencer name recorded on CacheEntry.Dereferencer.
const Name = "file"

// Dereferencer reads local files named by a file: URI, guessing a media
// type from the file extension.
type Dereferencer struct{}

// New constructs a Dereferencer.
func New() *Dereferencer {
	return &Dereferencer{}
}

// Dereference opens the file named by retrievalIRI.
func (d *Dereferencer) Dereference(retrievalIRI string) (*lodcache.Representation, error) {
	u, err := url.Parse(retrievalIRI)
	if err != nil {
		return nil, fmt.Errorf("filederef: invalid URI %q: %w", retrievalIRI, err)
	}
	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filederef: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}

	return &lodcache.Representation{MediaType: mediaType, Stream: f}, nil
}
