package scan

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind classifies a scanned token.
type Kind int

const (
	KindEOF Kind = iota

	// Literals and names
	KindIdent
	KindNumber
	KindString
	KindChar

	// Structure
	KindDot
	KindComma
	KindPathSep // ::
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLBrace
	KindRBrace

	// KindPunct is any other single rune (operators, ticks, ...).
	KindPunct
)
