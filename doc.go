// Package lazycancel provides cancellation primitives with deferred side effects: a timed
// cancellation Source whose countdown starts on first observation rather than at construction,
// and Links that propagate an externally owned cancellation signal into pending Futures, with
// the registration torn down automatically once the future settles.
package lazycancel
