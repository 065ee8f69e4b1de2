// Package catalog expands a character into its candidate asset URLs
// and keeps the ones that exist. Letters follow the detected path
// template with case-suffixed style folders; digits and symbols live
// in style-independent numbered folders. When nothing real exists the
// catalog hands back exactly one synthetic variant so rendering never
// comes up empty.
package catalog
