package lodcache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// MinimumIndexCapacity is the floor below which a configured
// memoryCacheCapacity is overridden, with a warning (§4.2, §6).
const MinimumIndexCapacity = 100

// DefaultIndexCapacity is used when no capacity is configured.
const DefaultIndexCapacity = 10000

// MetadataIndex is the bounded, in-memory graph-IRI → CacheEntry map (C2).
// It persists every mutation into the triple store and evicts the
// least-recently-inserted entry from memory (never from the store) once it
// is full. getMemo/setMemo are serialized with respect to each other.
type MetadataIndex struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // front = oldest insertion
	elems    map[string]*list.Element // graphIRI -> element holding *CacheEntry
	onEvict  func(graphIRI string)
}

// NewMetadataIndex constructs an index with the given capacity, flooring it
// at MinimumIndexCapacity. onWarn, if non-nil, is called when the floor is
// applied.
func NewMetadataIndex(capacity int, onWarn func(requested, effective int)) *MetadataIndex {
	effective := capacity
	if effective <= 0 {
		effective = DefaultIndexCapacity
	}
	if effective < MinimumIndexCapacity {
		if onWarn != nil {
			onWarn(capacity, MinimumIndexCapacity)
		}
		effective = MinimumIndexCapacity
	}
	return &MetadataIndex{
		capacity: effective,
		order:    list.New(),
		elems:    make(map[string]*list.Element),
	}
}

// Len returns the number of entries currently held in memory.
func (idx *MetadataIndex) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.elems)
}

// memoRecord is the yaml-encoded payload of the `memo` predicate's literal
// object.
type memoRecord struct {
	Status       Status    `yaml:"status"`
	Timestamp    time.Time `yaml:"timestamp"`
	MediaType    string    `yaml:"mediaType,omitempty"`
	Dereferencer string    `yaml:"dereferencer,omitempty"`
	Rdfizer      string    `yaml:"rdfizer,omitempty"`
}

// GetMemo returns the in-memory entry if present; otherwise it attempts to
// load one from the triple store's metadata statements. A memo whose decoded
// status is CacheLookup is treated as absent (§9 Open Question: a crash
// mid-retrieval leaves no valid recovery path, so it is simply expired).
func (idx *MetadataIndex) GetMemo(ctx context.Context, graphIRI string, conn TripleStoreConnection) (CacheEntry, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.lookupLocked(ctx, graphIRI, conn)
}

func (idx *MetadataIndex) loadFromStore(ctx context.Context, graphIRI string, conn TripleStoreConnection) (CacheEntry, bool, error) {
	stmts, err := conn.Statements(ctx, graphIRI, PredMemo, "", "")
	if err != nil {
		return CacheEntry{}, false, err
	}
	if len(stmts) == 0 {
		return CacheEntry{}, false, nil
	}
	var rec memoRecord
	if err := yaml.Unmarshal([]byte(stmts[0].Object), &rec); err != nil {
		return CacheEntry{}, false, err
	}
	return CacheEntry{
		GraphIRI:     graphIRI,
		Status:       rec.Status,
		Timestamp:    rec.Timestamp,
		MediaType:    rec.MediaType,
		Dereferencer: rec.Dereferencer,
		Rdfizer:      rec.Rdfizer,
	}, true, nil
}

// SetMemo inserts or replaces the in-memory entry for graphIRI. If conn is
// non-nil, previous memo statements for the graph IRI are removed and
// statements encoding the new entry are added.
func (idx *MetadataIndex) SetMemo(ctx context.Context, graphIRI string, entry CacheEntry, conn TripleStoreConnection) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry.GraphIRI = graphIRI
	idx.insertLocked(graphIRI, entry)

	if conn == nil {
		return nil
	}
	if err := conn.RemoveStatements(ctx, graphIRI, PredMemo, "", ""); err != nil {
		return err
	}
	if err := conn.RemoveStatements(ctx, graphIRI, PredMediaType, "", ""); err != nil {
		return err
	}
	if err := conn.RemoveStatements(ctx, graphIRI, PredDereferencer, "", ""); err != nil {
		return err
	}
	if err := conn.RemoveStatements(ctx, graphIRI, PredRdfizer, "", ""); err != nil {
		return err
	}
	if !entry.Status.Terminal() {
		// Non-terminal statuses (CacheLookup, Undetermined) are not
		// persisted at commit (§4.7 "terminal statuses are the only ones
		// persisted"); removal above is sufficient.
		return nil
	}

	rec := memoRecord{
		Status:       entry.Status,
		Timestamp:    entry.Timestamp,
		MediaType:    entry.MediaType,
		Dereferencer: entry.Dereferencer,
		Rdfizer:      entry.Rdfizer,
	}
	encoded, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	if err := conn.AddStatement(ctx, Statement{
		Subject: graphIRI, Predicate: PredMemo, Object: string(encoded), ObjectIsLiteral: true,
	}); err != nil {
		return err
	}
	if entry.MediaType != "" {
		if err := conn.AddStatement(ctx, Statement{
			Subject: graphIRI, Predicate: PredMediaType, Object: entry.MediaType, ObjectIsLiteral: true,
		}); err != nil {
			return err
		}
	}
	if entry.Dereferencer != "" {
		if err := conn.AddStatement(ctx, Statement{
			Subject: graphIRI, Predicate: PredDereferencer, Object: entry.Dereferencer, ObjectIsLiteral: true,
		}); err != nil {
			return err
		}
	}
	if entry.Rdfizer != "" {
		if err := conn.AddStatement(ctx, Statement{
			Subject: graphIRI, Predicate: PredRdfizer, Object: entry.Rdfizer, ObjectIsLiteral: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateMemo is the atomic "getSetMemo" critical section behind the
// at-most-one-in-flight-per-IRI invariant (§5, I1). If a fresh entry already
// exists (in memory or in the store), it is returned with winner=false and
// the caller must not retrieve. Otherwise a fresh CacheEntry in
// StatusCacheLookup is installed in memory (not persisted to the store) and
// returned with winner=true: the caller holds the single right to retrieve
// graphIRI until it calls SetMemo.
func (idx *MetadataIndex) GetOrCreateMemo(ctx context.Context, graphIRI string, conn TripleStoreConnection, policy ExpirationPolicy) (CacheEntry, bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry, found, err := idx.lookupLocked(ctx, graphIRI, conn)
	if err != nil {
		return CacheEntry{}, false, err
	}
	if found && !policy.IsExpired(entry) {
		return entry, false, nil
	}

	fresh := CacheEntry{GraphIRI: graphIRI, Status: StatusCacheLookup}
	idx.insertLocked(graphIRI, fresh)
	return fresh, true, nil
}

// lookupLocked must be called with idx.mu held. It checks memory, then falls
// back to the store, applying the same CacheLookup-is-absent rule as GetMemo.
func (idx *MetadataIndex) lookupLocked(ctx context.Context, graphIRI string, conn TripleStoreConnection) (CacheEntry, bool, error) {
	if el, ok := idx.elems[graphIRI]; ok {
		return el.Value.(*CacheEntry).clone(), true, nil
	}
	if conn == nil {
		return CacheEntry{}, false, nil
	}
	entry, found, err := idx.loadFromStore(ctx, graphIRI, conn)
	if err != nil || !found {
		return CacheEntry{}, false, err
	}
	if entry.Status == StatusCacheLookup {
		return CacheEntry{}, false, nil
	}
	idx.insertLocked(graphIRI, entry)
	return entry, true, nil
}

// insertLocked must be called with idx.mu held. It replaces the entry for
// graphIRI if present (keeping its position in the insertion order) or
// inserts a new one at the back, evicting the front if over capacity.
func (idx *MetadataIndex) insertLocked(graphIRI string, entry CacheEntry) {
	if el, ok := idx.elems[graphIRI]; ok {
		el.Value = &entry
		return
	}
	el := idx.order.PushBack(&entry)
	idx.elems[graphIRI] = el
	if len(idx.elems) > idx.capacity {
		oldest := idx.order.Front()
		if oldest != nil {
			evicted := oldest.Value.(*CacheEntry)
			idx.order.Remove(oldest)
			delete(idx.elems, evicted.GraphIRI)
			if idx.onEvict != nil {
				idx.onEvict(evicted.GraphIRI)
			}
		}
	}
}

// Snapshot returns a copy of every entry currently resident in memory.
// Used by the sweep package to find near-expiry entries; it never touches
// the triple store, so entries evicted from memory (but still fresh on
// disk) are invisible to it.
func (idx *MetadataIndex) Snapshot() []CacheEntry {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]CacheEntry, 0, len(idx.elems))
	for _, el := range idx.orderedElements() {
		out = append(out, el.clone())
	}
	return out
}

// orderedElements walks the insertion order list front-to-back. Must be
// called with idx.mu held.
func (idx *MetadataIndex) orderedElements() []*CacheEntry {
	out := make([]*CacheEntry, 0, idx.order.Len())
	for e := idx.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*CacheEntry))
	}
	return out
}

// Clear drops every in-memory entry. It does not touch the triple store.
func (idx *MetadataIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.order.Init()
	idx.elems = make(map[string]*list.Element)
}
