package lazycancel

import "errors"

var (
	// Returned when observing or cancelling a Source after Close.
	ErrSourceClosed = errors.New("source closed")
	// Returned by Future.Result while the future is still pending.
	ErrNotSettled = errors.New("future not settled")
)
