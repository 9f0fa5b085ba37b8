// Package httpderef is the http/https lodcache.Dereferencer (§4.4),
// restoring the original source's blocked-extension seeding and adding a
// per-origin-host circuit breaker around outbound fetches.
package httpderef

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/fortytwonet/lodcache"
)

// Name is the symbolic dereferencer name recorded on CacheEntry.Dereferencer.
const Name = "http"

// nonRDFExtensions is carried over verbatim from the original
// LinkedDataCache's NON_RDF_EXTENSIONS list, which rejected obviously
// non-RDF paths before spending a network round-trip. .htm/.html/.xhtml
// and .jpg/.jpeg are listed as permitted (false): RDFa and image-EXIF
// pipelines consume them.
var nonRDFExtensions = map[string]bool{
	".jpg": false, ".jpeg": false, ".htm": false, ".html": false, ".xhtml": false,

	".gif": true, ".png": true, ".bmp": true, ".ico": true, ".svg": true,
	".mp3": true, ".mp4": true, ".wav": true, ".avi": true, ".mov": true, ".mpg": true, ".mpeg": true,
	".zip": true, ".gz": true, ".tar": true, ".rar": true, ".7z": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true, ".pdf": true,
	".js": true, ".css": true, ".exe": true, ".dll": true, ".so": true, ".class": true, ".jar": true,
}

// isBlocked reports whether iri's path extension is one that should be
// rejected without dereferencing.
func isBlocked(iri string) bool {
	u, err := url.Parse(iri)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	blocked, known := nonRDFExtensions[ext]
	return known && blocked
}

// RedirectResolver is the subset of lodcache.RedirectManager this package
// depends on. It is defined locally (structural typing) so that this
// package never needs to know about lodcache.RedirectManager's other
// methods, and lodcache never needs to import this package.
type RedirectResolver interface {
	Record(ctx context.Context, source, target string) error
}

// FreshnessChecker reports whether iri's graph is currently fresh, without
// triggering a retrieval. Satisfied by (*lodcache.Engine).IsFresh.
type FreshnessChecker func(ctx context.Context, iri string) (bool, error)

// Dereferencer fetches RDF representations over HTTP/HTTPS.
type Dereferencer struct {
	client    *http.Client
	redirects RedirectResolver
	isFresh   FreshnessChecker
	accept    string
	log       zerolog.Logger

	breakersMu sync.Mutex
	breakers   map[string]*gobreaker.CircuitBreaker[*http.Response]
}

// New constructs a Dereferencer. accept is sent as the Accept header
// (typically lodcache.Engine.AcceptHeader()). redirects may be nil, in which
// case redirects are not recorded; isFresh may be nil, disabling
// redirect-to-cached short-circuiting.
func New(client *http.Client, accept string, redirects RedirectResolver, isFresh FreshnessChecker, log zerolog.Logger) *Dereferencer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := &Dereferencer{
		client:    client,
		redirects: redirects,
		isFresh:   isFresh,
		accept:    accept,
		log:       log,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
	// This client never auto-follows redirects; Dereference inspects each
	// hop itself so it can record it and consult the freshness check.
	d.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return d
}

func (d *Dereferencer) breakerFor(host string) *gobreaker.CircuitBreaker[*http.Response] {
	d.breakersMu.Lock()
	defer d.breakersMu.Unlock()
	if cb, ok := d.breakers[host]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	d.breakers[host] = cb
	return cb
}

const maxRedirects = 10

// Dereference fetches retrievalIRI, following redirects itself. A redirect
// whose target is already fresh short-circuits with (nil, nil), classified
// by the orchestrator as RedirectsToCached (§4.3).
func (d *Dereferencer) Dereference(retrievalIRI string) (*lodcache.Representation, error) {
	if isBlocked(retrievalIRI) {
		return nil, fmt.Errorf("httpderef: blocked non-RDF extension: %s", retrievalIRI)
	}

	ctx := context.Background()
	current := retrievalIRI

	for hop := 0; hop < maxRedirects; hop++ {
		u, err := url.Parse(current)
		if err != nil {
			return nil, fmt.Errorf("httpderef: invalid URL %q: %w", current, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("httpderef: building request: %w", err)
		}
		if d.accept != "" {
			req.Header.Set("Accept", d.accept)
		}

		cb := d.breakerFor(u.Host)
		resp, err := cb.Execute(func() (*http.Response, error) {
			return d.client.Do(req)
		})
		if err != nil {
			return nil, fmt.Errorf("httpderef: fetching %q: %w", current, err)
		}

		if loc := resp.Header.Get("Location"); resp.StatusCode >= 300 && resp.StatusCode < 400 && loc != "" {
			resp.Body.Close()
			target, err := u.Parse(loc)
			if err != nil {
				return nil, fmt.Errorf("httpderef: invalid redirect target %q: %w", loc, err)
			}
			targetIRI := target.String()
			if d.redirects != nil {
				if err := d.redirects.Record(ctx, current, targetIRI); err != nil {
					d.log.Warn().Err(err).Str("source", current).Str("target", targetIRI).Msg("could not record redirect")
				}
			}
			if d.isFresh != nil {
				fresh, err := d.isFresh(ctx, targetIRI)
				if err != nil {
					d.log.Warn().Err(err).Str("iri", targetIRI).Msg("freshness check failed")
				} else if fresh {
					return nil, nil
				}
			}
			current = targetIRI
			continue
		}

		if resp.StatusCode == http.StatusNotModified {
			resp.Body.Close()
			return nil, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("httpderef: %s returned status %d", current, resp.StatusCode)
		}

		mediaType := resp.Header.Get("Content-Type")
		if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = mt
		}
		return &lodcache.Representation{MediaType: mediaType, Stream: resp.Body}, nil
	}

	return nil, fmt.Errorf("httpderef: too many redirects starting at %q", retrievalIRI)
}
