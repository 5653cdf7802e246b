// Package scan tokenizes the content of a clone! invocation.
//
// Tokens carry half-open byte spans into the scanned content so later
// stages can re-slice the original text verbatim instead of re-printing
// tokens. String, char, and number literals are scanned as single tokens
// so that delimiters inside them never confuse request splitting.
package scan
