package lodcache

import (
	"context"
	"time"
)

// Retrieve is the Retrieval Orchestrator (C7): the single entry point that
// drives one graph IRI through the CacheEntry state machine (§4.7). It
// returns the CacheEntry reached for graphIRI, whether or not this call was
// the one that performed the retrieval.
func (e *Engine) Retrieve(ctx context.Context, iri string) (CacheEntry, error) {
	graphIRI, err := GraphIRI(iri)
	if err != nil {
		return CacheEntry{}, err
	}

	entry, winner, err := e.index.GetOrCreateMemo(ctx, graphIRI, e.conn, e.expirationPolicy)
	if err != nil {
		return CacheEntry{}, err
	}
	if !winner {
		return entry, nil
	}

	// retrievalIRI is the graph IRI: both are the fragment-stripped form (§3).
	retrievalIRI := graphIRI
	entry.Status = StatusUndetermined

	scheme := Scheme(retrievalIRI)
	dref, drefName, ok := e.dereferencers.Lookup(scheme)
	if !ok {
		// No persisted change: the entry stays Undetermined in memory only,
		// matching the original's early return before its retrieval's
		// finally block runs (§4.7 step 5).
		e.log.Warn().Str("iri", iri).Str("scheme", scheme).Msg("no dereferencer registered for scheme")
		_ = e.index.SetMemo(ctx, graphIRI, entry, nil)
		return entry, nil
	}
	entry.Dereferencer = drefName

	entry.Status, entry.MediaType, entry.Rdfizer = e.retrieveInternal(ctx, iri, retrievalIRI, graphIRI, dref, &entry)
	entry.Timestamp = e.now()

	if err := e.index.SetMemo(ctx, graphIRI, entry, e.conn); err != nil {
		return entry, err
	}

	if e.cfg.AutoCommit {
		if err := e.conn.Commit(ctx); err != nil {
			return entry, err
		}
		if err := e.conn.Begin(ctx); err != nil {
			return entry, err
		}
	}

	e.metrics.ObserveRetrieval(entry.Status)
	e.metrics.SetIndexSize(e.index.Len())
	if entry.Status != StatusSuccess {
		e.log.Info().Str("iri", iri).Str("graphIRI", graphIRI).Str("status", string(entry.Status)).
			Str("dereferencer", entry.Dereferencer).Str("rdfizer", entry.Rdfizer).
			Msg("retrieval did not succeed")
	}

	return entry, nil
}

// retrieveInternal performs the dereference/RDFize/replace-graph sequence
// (§4.7 steps 6-11) and returns the outcome status, the media type actually
// used, and the RDFizer's symbolic name.
func (e *Engine) retrieveInternal(ctx context.Context, originalIRI, retrievalIRI, graphIRI string, dref Dereferencer, entry *CacheEntry) (Status, string, string) {
	derefStart := e.now()
	rep, err := dref.Dereference(retrievalIRI)
	e.metrics.ObserveDereference(Scheme(retrievalIRI), e.now().Sub(derefStart))
	if err != nil {
		e.log.Warn().Str("iri", originalIRI).Err(err).Msg("dereferencer error")
		return StatusDereferencerError, "", ""
	}
	if rep == nil {
		// No new representation: a redirect chain resolved to an IRI whose
		// graph is already fresh (§4.3).
		return StatusRedirectsToCached, "", ""
	}
	defer rep.Stream.Close()

	rdfizer, rdfizerName, ok := e.rdfizers.Lookup(rep.MediaType)
	if !ok {
		e.log.Warn().Str("iri", originalIRI).Str("mediaType", rep.MediaType).Msg("no RDFizer registered for media type")
		return StatusBadMediaType, rep.MediaType, ""
	}

	handler, buffer := newPipeline(graphIRI, e.cfg.UseBlankNodes)
	baseIRI := Namespace(originalIRI)

	rdfizeStart := e.now()
	status := rdfizer.Rdfize(rep.Stream, handler, baseIRI)
	e.metrics.ObserveRdfize(rep.MediaType, e.now().Sub(rdfizeStart))

	if status != StatusSuccess {
		buffer.discard()
		return status, rep.MediaType, rdfizerName
	}

	sink := e.dataStore.CreateConsumer(e.conn)
	if err := e.conn.RemoveStatements(ctx, "", "", "", graphIRI); err != nil {
		e.log.Warn().Str("iri", originalIRI).Err(err).Msg("could not clear graph before replacement")
		buffer.discard()
		return StatusFailure, rep.MediaType, rdfizerName
	}
	if err := buffer.flush(sink); err != nil {
		e.log.Warn().Str("iri", originalIRI).Err(err).Msg("could not flush parsed statements")
		return StatusFailure, rep.MediaType, rdfizerName
	}

	return StatusSuccess, rep.MediaType, rdfizerName
}

func (e *Engine) now() time.Time {
	return time.Now()
}
