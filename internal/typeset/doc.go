// Package typeset composes the letterform pipeline. A Typesetter owns
// one layout detector, one probe memo, one load cache and one
// synthesizer, and turns input text into an ordered run of descriptors
// backed by real assets where they exist and synthesized glyphs where
// they do not.
package typeset
