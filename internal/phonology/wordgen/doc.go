// Package wordgen expands syllable patterns into words.
//
// A pattern is a string of class symbols and literals. C (or c) draws one
// grapheme from the consonant inventory, V (or v) one from the vowel
// inventory, and every other rune is copied verbatim. Sampling is uniform
// and uses a caller-supplied random source so results are reproducible.
//
// Drawing from an empty inventory contributes the empty string.
package wordgen
