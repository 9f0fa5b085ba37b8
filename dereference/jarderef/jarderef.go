// Package jarderef is the jar: scheme lodcache.Dereferencer, restored from
// the original Java source's JarURIDereferencer (§D.1 in SPEC_FULL.md).
// It follows the classic jar:file:///path.jar!/entry convention: everything
// before the last "!/" names the archive, everything after names the entry.
package jarderef

import (
	"archive/zip"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic dereferencer name recorded on CacheEntry.Dereferencer.
const Name = "jar"

// Dereferencer reads entries out of local zip/jar archives.
type Dereferencer struct{}

// New constructs a Dereferencer.
func New() *Dereferencer {
	return &Dereferencer{}
}

// Dereference opens the archive and entry named by retrievalIRI, of the
// form jar:file:///path/to/archive.jar!/entry/within/archive.
func (d *Dereferencer) Dereference(retrievalIRI string) (*lodcache.Representation, error) {
	rest := strings.TrimPrefix(retrievalIRI, "jar:")
	sep := strings.LastIndex(rest, "!/")
	if sep < 0 {
		return nil, fmt.Errorf("jarderef: malformed jar URI, missing \"!/\": %q", retrievalIRI)
	}
	archiveURI := rest[:sep]
	entryName := rest[sep+2:]

	u, err := url.Parse(archiveURI)
	if err != nil {
		return nil, fmt.Errorf("jarderef: invalid archive URI %q: %w", archiveURI, err)
	}
	archivePath := u.Path
	if u.Opaque != "" {
		archivePath = u.Opaque
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("jarderef: opening archive %q: %w", archivePath, err)
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == entryName {
			entry = f
			break
		}
	}
	if entry == nil {
		zr.Close()
		return nil, fmt.Errorf("jarderef: entry %q not found in %q", entryName, archivePath)
	}

	rc, err := entry.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("jarderef: opening entry %q: %w", entryName, err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(entryName))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}

	return &lodcache.Representation{
		MediaType: mediaType,
		Stream:    &archiveEntryReadCloser{entry: rc, archive: zr},
	}, nil
}

// archiveEntryReadCloser closes both the entry's reader and the archive
// itself, since zip.OpenReader holds a file handle that must be released.
type archiveEntryReadCloser struct {
	entry   io.ReadCloser
	archive *zip.ReadCloser
}

func (r *archiveEntryReadCloser) Read(p []byte) (int, error) {
	return r.entry.Read(p)
}

func (r *archiveEntryReadCloser) Close() error {
	entryErr := r.entry.Close()
	archiveErr := r.archive.Close()
	if entryErr != nil {
		return entryErr
	}
	return archiveErr
}
