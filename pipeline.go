package lodcache

import (
	"github.com/google/uuid"
)

// BNodeIRIPrefix is prepended to a freshly minted UUID to produce a
// collision-free IRI standing in for a blank node, when the engine is
// configured with useBlankNodes=false (§4.6 step 2).
const BNodeIRIPrefix = "urn:lodcache:bnode:"

// bnodeMapper deterministically replaces blank node labels with freshly
// minted IRIs. The mapping need not persist across retrievals — it is
// rebuilt for every call to newPipeline.
type bnodeMapper struct {
	seen map[string]string
}

func newBNodeMapper() *bnodeMapper {
	return &bnodeMapper{seen: make(map[string]string)}
}

func (m *bnodeMapper) iriFor(label string) string {
	if iri, ok := m.seen[label]; ok {
		return iri
	}
	iri := BNodeIRIPrefix + uuid.New().String()
	m.seen[label] = iri
	return iri
}

// statementBuffer collects statements in memory. It is only drained after
// the RDFizer reports Success; on any other outcome it is simply discarded,
// which is the primary mechanism preserving I3: partial parses never
// pollute the graph (§4.6 step 3).
type statementBuffer struct {
	statements []Statement
}

func (b *statementBuffer) add(st Statement) {
	b.statements = append(b.statements, st)
}

// flush writes every buffered statement through sink, in order, and clears
// the buffer. It stops and returns the first error encountered.
func (b *statementBuffer) flush(sink StatementSink) error {
	for _, st := range b.statements {
		if err := sink.Accept(st); err != nil {
			return err
		}
	}
	b.statements = nil
	return nil
}

func (b *statementBuffer) discard() {
	b.statements = nil
}

// pipelineHandler is the StatementHandler assembled fresh per retrieval
// (C6). Order: rewrite context to the graph IRI, optionally replace blank
// nodes with minted IRIs, then buffer.
type pipelineHandler struct {
	BaseHandler
	graphIRI string
	bnodes   *bnodeMapper
	buffer   *statementBuffer
}

// newPipeline assembles the statement pipeline for one retrieval. The
// returned handler feeds buf; buf is flushed to a StatementSink by the
// orchestrator only when the RDFizer reports StatusSuccess.
func newPipeline(graphIRI string, useBlankNodes bool) (StatementHandler, *statementBuffer) {
	buf := &statementBuffer{}
	h := &pipelineHandler{graphIRI: graphIRI, buffer: buf}
	if !useBlankNodes {
		h.bnodes = newBNodeMapper()
	}
	return h, buf
}

func (h *pipelineHandler) HandleStatement(st Statement) error {
	// SingleContextRewriter: overwrite whatever context the parser produced.
	st.Context = h.graphIRI

	if h.bnodes != nil {
		if st.SubjectIsBNode {
			st.Subject = h.bnodes.iriFor(st.Subject)
			st.SubjectIsBNode = false
		}
		if st.ObjectIsBNode {
			st.Object = h.bnodes.iriFor(st.Object)
			st.ObjectIsBNode = false
		}
	}

	h.buffer.add(st)
	return nil
}
