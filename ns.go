package lodcache

// Namespace and predicate IRIs for the metadata persisted in the default
// graph of the triple store (§6).
const (
	CacheNamespace = "http://fortytwo.net/2012/02/linkeddata#"

	PredMemo         = CacheNamespace + "memo"
	PredRedirectsTo  = CacheNamespace + "redirectsTo"
	PredMediaType    = CacheNamespace + "memoMediaType"
	PredDereferencer = CacheNamespace + "memoDereferencer"
	PredRdfizer      = CacheNamespace + "memoRdfizer"
)
