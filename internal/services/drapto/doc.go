// Package drapto re-encodes organized videos with the Drapto Go library.
//
// Transcoder encodes into a scratch directory beside each input and then
// replaces the input with the .mkv result. The Encoder interface lets tests
// swap in a fake instead of running the real encoder.
package drapto
