// Package callqueue serializes outbound calls to a rate-limited upstream.
//
// A Queue runs one job at a time in submission order and guarantees that
// consecutive jobs start at least the configured delay apart, no matter how
// many goroutines submit work. A failing job only fails its own submitter.
package callqueue
