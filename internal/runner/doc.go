// Package runner executes a drawing job end to end.
//
// A job is prepared (fitted, vectorized and estimated) synchronously, then
// replayed batch by batch on one worker goroutine. Colored batches are
// preceded by a color-selection sequence against the host application's
// picker; binary batches are drawn straight away. Only one job may be active
// per Runner, since two jobs would fight over the same pointer.
//
// Cancellation flows through a context. Monitor bridges external cancel
// triggers (a signal, a flag set by an RPC) onto that context.
package runner
