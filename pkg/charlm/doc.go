/*
Package charlm provides a character-level statistical language model.

A Model learns, from a corpus, how often each character follows every
fixed-length window of characters, then generates new text one character at a
time by weighted random sampling over those counts. Windows never seen during
training end generation early; there is no smoothing.

A Model is not safe for concurrent use. Its random source is owned by the
model, so two models built with the same window length and seed and trained on
the same corpus generate identical text.
*/
package charlm
