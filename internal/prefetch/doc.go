// Package prefetch warms the letterform pipeline ahead of need. A
// bounded queue orders warm jobs by priority and a small worker pool
// drains them through the resolver, so probe answers and loaded
// assets are already cached when rendering asks for them.
package prefetch
