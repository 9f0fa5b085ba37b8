package lodcache

import "context"

// TripleStoreConnection is the collaborator interface the core consumes for
// persistence (§6). It is deliberately narrow: everything the engine needs
// from a triple store, and nothing a specific driver would add.
//
// Implementations must be safe for concurrent use by distinct graph IRIs;
// the engine itself only serializes access to a single graph IRI's metadata
// through MetadataIndex's lock (§5).
type TripleStoreConnection interface {
	// AddStatement adds one statement. Context "" denotes the default graph,
	// used for cache metadata and redirects.
	AddStatement(ctx context.Context, st Statement) error
	// RemoveStatements removes all statements matching the given pattern.
	// Empty strings act as wildcards for subject/predicate/object; context
	// is never a wildcard (callers always pass an exact graph IRI or "").
	RemoveStatements(ctx context.Context, subject, predicate, object, graph string) error
	// Statements returns every statement matching the pattern, same
	// wildcard rules as RemoveStatements.
	Statements(ctx context.Context, subject, predicate, object, graph string) ([]Statement, error)
	// Begin starts a transaction. The store is expected to already be inside
	// one after construction; Begin is called again after each Commit.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Close() error
	// Clear removes every statement in the store, across every graph,
	// used by Engine.Clear (§4.8). It is never called from the retrieval
	// path.
	Clear(ctx context.Context) error
}

// DataStoreFactory is the injection point for write-side behaviour (§6).
// CreateConsumer returns a sink that the statement pipeline's final stage
// writes flushed statements through. Test fixtures that need to intercept
// writes without touching the real connection provide their own factory;
// the default factory (§9 Open Question, resolved in SPEC_FULL.md D.5) just
// wraps conn directly — there is exactly one write path, never a dual one.
type DataStoreFactory interface {
	CreateConsumer(conn TripleStoreConnection) StatementSink
}

// StatementSink accepts statements one at a time. It is the narrowest
// interface the statement pipeline needs from its final stage.
type StatementSink interface {
	Accept(Statement) error
}

type defaultDataStoreFactory struct{}

func (defaultDataStoreFactory) CreateConsumer(conn TripleStoreConnection) StatementSink {
	return &connectionSink{conn: conn}
}

type connectionSink struct {
	conn TripleStoreConnection
}

func (s *connectionSink) Accept(st Statement) error {
	return s.conn.AddStatement(context.Background(), st)
}
