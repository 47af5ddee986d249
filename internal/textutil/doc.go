// Package textutil provides small text helpers shared by the name parser and
// path builder: unicode separator normalization, whitespace collapsing, and
// filename sanitization for path segments.
package textutil
