// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Services in internal/core/services depend on these interfaces and
// are wired with concrete adapters from internal/adapters/driven at
// startup. Optional services (embedding, generation) may be nil; the
// core degrades gracefully rather than failing.
package driven
