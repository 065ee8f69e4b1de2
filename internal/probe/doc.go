// Package probe answers one question: does this URL point at a
// loadable asset? Probes are bounded by a timeout, rate limited, and
// memoized for the life of the process; they report a plain boolean
// and never an error.
package probe
