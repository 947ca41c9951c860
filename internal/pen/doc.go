// Package pen turns polylines into timed pointer motion.
//
// A Pen drives a Device through three phases per stroke: a fast travel move
// to the first point, a pressed drag through every point pair at the
// configured Speed, and a release. Cancellation arrives through the context
// and is observed between point pairs; whenever the button went down the Pen
// releases it again before returning, whatever the outcome.
//
// All waits go through a Sleeper so tests can run on a fake clock.
package pen
