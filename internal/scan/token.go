package scan

import "fmt"

// Span is a half-open byte interval [Start, End) into the scanned content.
type Span struct {
	Start int
	End   int
}

// Empty returns true if the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	if other.Empty() {
		return s
	}

	if s.Empty() {
		return other
	}

	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}

	if other.End > out.End {
		out.End = other.End
	}

	return out
}

// Shift returns the span moved by off bytes. Used to translate
// content-relative spans into file-relative ones.
func (s Span) Shift(off int) Span {
	return Span{Start: s.Start + off, End: s.End + off}
}

// Token is one scanned unit with its raw text and span.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// Is reports whether the token is an identifier with the given text.
func (t Token) Is(ident string) bool {
	return t.Kind == KindIdent && t.Text == ident
}

// Error is a lexical error bound to a span of the scanned content.
type Error struct {
	Msg  string
	Span Span
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (byte %d)", e.Msg, e.Span.Start)
}
