// Package commit arbitrates requests to commit more memory to a metadata
// arena against two caps.
//
// # Overview
//
// A Budget tracks the bytes currently committed to the arena. Every request to
// grow is checked against:
//
//   - the GC threshold: a soft cap, recomputed by the collection policy and
//     published with SetThreshold; crossing it should trigger a collection
//   - the hard ceiling: the configured maximum metadata size, never exceeded
//
// # Admission
//
// Given committed, threshold and ceiling, a request for (min, preferred)
// bytes is decided as:
//
//  1. committed+preferred fits under both caps: grant preferred
//  2. committed+min fits under both caps: grant min
//  3. otherwise: grant nothing
//
// Requests must satisfy 0 < preferred and min <= preferred. Violating that
// is a programming error and panics with an *invariant.Violation, as does a
// Decrease larger than the committed total. A min of 0 is allowed and means
// "preferred or nothing".
//
// A denied request is not an error. It is the signal that the caller should
// run a collection, or escalate, before retrying.
//
// # Locking
//
// The check and the update happen in one critical section, so concurrent
// requests can never together commit past the ceiling. There are two entry
// points, distinguished by who holds the lock:
//
//	// caller holds nothing
//	g := budget.TryIncrease(min, preferred)
//
//	// caller is already inside a larger expansion step
//	h := budget.Lock()
//	g := h.TryIncrease(min, preferred)
//	... map the granted range ...
//	h.Unlock()
//
// The locked form only exists on *Held, so it cannot be called without the
// lock. Calling Budget.TryIncrease while holding a *Held deadlocks.
//
// # Thread Safety
//
// Budget is safe for concurrent use. A *Held belongs to the goroutine that
// called Lock and must not be shared.
package commit
