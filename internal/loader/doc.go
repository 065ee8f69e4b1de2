// Package loader turns variants into renderable resources. Remote
// assets are fetched once, decoded, and cached by URL with true
// in-flight coalescing: concurrent requests for the same URL share a
// single fetch. Synthetic variants short-circuit to the synthesizer.
// Loading never fails outward; a broken or unreachable asset resolves
// to a synthesized fallback.
package loader
