package lodcache

import (
	"context"
	"fmt"
)

// RedirectManager resolves and records IRI→IRI redirects as statements in
// the default (metadata) graph (C3). The engine holds one and hands it to
// HTTP-style dereferencers, which call Record when they observe a redirect.
// Resolve follows a recorded chain to its terminal IRI; neither
// Engine.Retrieve nor the httpderef dereferencer calls it before retrieval.
type RedirectManager struct {
	conn TripleStoreConnection
}

// NewRedirectManager constructs a manager bound to the engine's single
// shared connection.
func NewRedirectManager(conn TripleStoreConnection) *RedirectManager {
	return &RedirectManager{conn: conn}
}

// Resolve follows the redirect chain starting at iri, breaking cycles with a
// visited set, and returns the terminal IRI. If iri has no recorded
// redirect, it is itself the terminal IRI.
func (m *RedirectManager) Resolve(ctx context.Context, iri string) (string, error) {
	visited := map[string]bool{}
	current := iri
	for {
		if visited[current] {
			return current, fmt.Errorf("redirect cycle detected at %q", current)
		}
		visited[current] = true

		stmts, err := m.conn.Statements(ctx, current, PredRedirectsTo, "", "")
		if err != nil {
			return "", err
		}
		if len(stmts) == 0 {
			return current, nil
		}
		current = stmts[0].Object
	}
}

// Record stores a redirect from source to target in the default graph.
func (m *RedirectManager) Record(ctx context.Context, source, target string) error {
	if source == target {
		return nil
	}
	return m.conn.AddStatement(ctx, Statement{
		Subject: source, Predicate: PredRedirectsTo, Object: target,
	})
}
