package lodcache

import "errors"

// ErrClosed is returned by Engine methods called after Close.
var ErrClosed = errors.New("lodcache: engine is closed")
