package lodcache

import (
	"fmt"
	"time"
)

// DatatypeHandling controls how verbatim RDFizers treat literal datatypes
// (§6, restored from the original LinkedDataCache.getDatatypeHandling).
type DatatypeHandling string

const (
	DatatypeIgnore    DatatypeHandling = "ignore"
	DatatypeVerify    DatatypeHandling = "verify"
	DatatypeNormalize DatatypeHandling = "normalize"
)

func (d DatatypeHandling) validate() error {
	switch d {
	case DatatypeIgnore, DatatypeVerify, DatatypeNormalize:
		return nil
	default:
		return fmt.Errorf("no such datatype handling policy: %q", d)
	}
}

// Config is the concrete configuration record populated at construction
// (§9: global configuration via string properties is replaced by this).
type Config struct {
	// MemoryCacheCapacity bounds the MetadataIndex; floored at
	// MinimumIndexCapacity. Default DefaultIndexCapacity.
	MemoryCacheCapacity int
	// CacheLifetime is the default ExpirationPolicy's freshness window.
	// Default DefaultCacheLifetime.
	CacheLifetime time.Duration
	// DatatypeHandling governs literal strictness in the N-Triples RDFizer;
	// the RDF/XML RDFizer does not consult it. Default DatatypeIgnore. An
	// unrecognized value is fatal.
	DatatypeHandling DatatypeHandling
	// UseBlankNodes, if false (the default), replaces blank nodes with
	// freshly minted IRIs during RDFization.
	UseBlankNodes bool
	// AutoCommit commits the connection's transaction after each retrieval
	// and reopens one (default true).
	AutoCommit bool

	// DerefSubjects/DerefPredicates/DerefObjects/DerefContexts are toggles
	// consulted by a query layer above the engine, not by the engine
	// itself (§4.8).
	DerefSubjects   bool
	DerefPredicates bool
	DerefObjects    bool
	DerefContexts   bool
}

// DefaultConfig returns the engine's default configuration (§6).
func DefaultConfig() Config {
	return Config{
		MemoryCacheCapacity: DefaultIndexCapacity,
		CacheLifetime:       DefaultCacheLifetime,
		DatatypeHandling:    DatatypeIgnore,
		UseBlankNodes:       false,
		AutoCommit:          true,
		DerefSubjects:       true,
		DerefPredicates:     false,
		DerefObjects:        true,
		DerefContexts:       false,
	}
}

func (c Config) validate() error {
	return c.DatatypeHandling.validate()
}
