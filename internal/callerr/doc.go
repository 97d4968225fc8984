// Package callerr defines the structured, call-scoped errors produced by
// the dispatch pipeline. Every error here is terminal for its call; none is
// retryable. The dispatcher and marshaler only construct these values — the
// call driver is the single place they are rendered for humans.
package callerr
