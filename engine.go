package lodcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MetricsRecorder is the hook the orchestrator reports through; it never
// imports a metrics library directly (§E in SPEC_FULL.md). The value
// noopMetrics{} is the default.
type MetricsRecorder interface {
	ObserveRetrieval(status Status)
	ObserveDereference(scheme string, d time.Duration)
	ObserveRdfize(mediaType string, d time.Duration)
	SetIndexSize(n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRetrieval(Status)                {}
func (noopMetrics) ObserveDereference(string, time.Duration) {}
func (noopMetrics) ObserveRdfize(string, time.Duration)       {}
func (noopMetrics) SetIndexSize(int)                          {}

// Engine is the Cache Engine Facade (C8): construction, defaults wiring,
// configuration, and the single retrieve(iri) entry point (C7).
type Engine struct {
	// connMu guards the connection's lifecycle calls: getConnection-style
	// access is implicit (conn is fixed for the engine's life), Clear, and
	// Close (§5).
	connMu sync.Mutex
	conn   TripleStoreConnection
	closed bool

	index            *MetadataIndex
	expirationPolicy ExpirationPolicy
	dereferencers    *DereferencerRegistry
	rdfizers         *RDFizerRegistry
	redirects        *RedirectManager
	dataStore        DataStoreFactory

	cfg     Config
	log     zerolog.Logger
	metrics MetricsRecorder
}

// New constructs an Engine around conn with no dereferencers or RDFizers
// registered. Callers typically use a wiring package (e.g. `defaults`) to
// populate them, mirroring createDefault in the original source.
func New(conn TripleStoreConnection, cfg Config) (*Engine, error) {
	if cfg.MemoryCacheCapacity == 0 && cfg.CacheLifetime == 0 && cfg.DatatypeHandling == "" {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	var warnCapacity int
	index := NewMetadataIndex(cfg.MemoryCacheCapacity, func(requested, effective int) {
		warnCapacity = effective
		log.Warn().Int("requested", requested).Int("effective", effective).
			Msg("memoryCacheCapacity is suspiciously low, overriding")
	})
	_ = warnCapacity

	e := &Engine{
		conn:             conn,
		index:            index,
		expirationPolicy: NewExpirationPolicy(cfg.CacheLifetime),
		dereferencers:    NewDereferencerRegistry(),
		dataStore:        defaultDataStoreFactory{},
		cfg:              cfg,
		log:              log,
		metrics:          noopMetrics{},
	}
	e.rdfizers = NewRDFizerRegistry(func(msg string) { e.log.Warn().Msg(msg) })
	e.redirects = NewRedirectManager(conn)

	if err := conn.Begin(context.Background()); err != nil {
		return nil, fmt.Errorf("lodcache: could not open initial transaction: %w", err)
	}

	return e, nil
}

// RegisterDereferencer associates a Dereferencer with an IRI scheme.
func (e *Engine) RegisterDereferencer(scheme string, dref Dereferencer, name string) {
	e.log.Info().Str("scheme", scheme).Str("dereferencer", name).Msg("adding dereferencer")
	e.dereferencers.Register(scheme, dref, name)
}

// RegisterRDFizer associates an RDFizer with a media type at the given
// quality factor.
func (e *Engine) RegisterRDFizer(mediaType string, rdfizer RDFizer, quality float64, name string) error {
	if err := e.rdfizers.Register(mediaType, rdfizer, quality, name); err != nil {
		return err
	}
	e.log.Info().Str("mediaType", mediaType).Str("rdfizer", name).Float64("quality", quality).
		Msg("adding RDFizer")
	return nil
}

// AcceptHeader returns an HTTP Accept header matching the registered
// RDFizers (§4.8).
func (e *Engine) AcceptHeader() string {
	return e.rdfizers.AcceptHeader()
}

// SetExpirationPolicy installs a custom ExpirationPolicy (C1).
func (e *Engine) SetExpirationPolicy(p ExpirationPolicy) {
	e.expirationPolicy = p
}

// SetDataStore installs a custom write-path factory (§6, §9 Open Question).
func (e *Engine) SetDataStore(f DataStoreFactory) {
	e.dataStore = f
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// SetMetricsRecorder installs a MetricsRecorder; nil restores the no-op
// default.
func (e *Engine) SetMetricsRecorder(m MetricsRecorder) {
	if m == nil {
		m = noopMetrics{}
	}
	e.metrics = m
}

// RedirectManager exposes the engine's shared redirect manager so
// dereferencers constructed outside the core package (e.g. an HTTP
// dereferencer) can record and resolve redirects against the same
// metadata graph.
func (e *Engine) RedirectManager() *RedirectManager {
	return e.redirects
}

// IsFresh reports whether graphIRI currently has a fresh CacheEntry,
// without triggering a retrieval. HTTP-style dereferencers use this to
// decide whether a redirect target is already cached (§4.3): if so, the
// orchestrator classifies the *source* entry as RedirectsToCached and
// performs no further work.
func (e *Engine) IsFresh(ctx context.Context, iri string) (bool, error) {
	graphIRI, err := GraphIRI(iri)
	if err != nil {
		return false, err
	}
	entry, found, err := e.index.GetMemo(ctx, graphIRI, e.conn)
	if err != nil {
		return false, err
	}
	if !found || entry.Status == StatusCacheLookup {
		return false, nil
	}
	return !e.expirationPolicy.IsExpired(entry), nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// IndexSize returns the number of entries currently held in the
// MetadataIndex.
func (e *Engine) IndexSize() int {
	return e.index.Len()
}

// NearExpiry returns the graph IRIs of resident, terminal entries expiring
// within horizon. It is a read-only survey for the sweep package; it never
// mutates the index or triggers a retrieval.
func (e *Engine) NearExpiry(horizon time.Duration) []string {
	var iris []string
	for _, entry := range e.index.Snapshot() {
		if !entry.Status.Terminal() {
			continue
		}
		if r := e.expirationPolicy.Remaining(entry); r <= horizon {
			iris = append(iris, entry.GraphIRI)
		}
	}
	return iris
}

// Clear drops the in-memory index and truncates the triple store (§4.8).
func (e *Engine) Clear(ctx context.Context) error {
	e.connMu.Lock()
	defer e.connMu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.index.Clear()
	if err := e.conn.Clear(ctx); err != nil {
		return err
	}
	if err := e.conn.Commit(ctx); err != nil {
		return err
	}
	return e.conn.Begin(ctx)
}

// Close releases the engine's connection.
func (e *Engine) Close() error {
	e.connMu.Lock()
	defer e.connMu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.conn.Close()
}
