package scan

import (
	"unicode"
	"unicode/utf8"
)

// Lexer scans the content of one invocation into tokens.
type Lexer struct {
	src   string
	pos   int
	start int
	prev  Kind
}

// NewLexer creates a Lexer over the given content.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the whole content. The returned slice always ends with an
// EOF token. On a lexical error the tokens scanned so far are returned
// together with a *Error carrying the offending span.
func (l *Lexer) Scan() ([]Token, error) {
	var toks []Token

	for {
		tok, err := l.next()
		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)

		if tok.Kind == KindEOF {
			return toks, nil
		}
	}
}

// next scans a single token.
func (l *Lexer) next() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	l.start = l.pos

	if l.pos >= len(l.src) {
		return l.emit(KindEOF), nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])

	switch {
	case isIdentStart(r):
		l.scanIdent()
		return l.emit(KindIdent), nil

	case isDigit(r):
		l.scanNumber()
		return l.emit(KindNumber), nil
	}

	switch r {
	case '"':
		if err := l.scanString(); err != nil {
			return Token{}, err
		}

		return l.emit(KindString), nil

	case '\'':
		// A tick that does not close as a char literal (a lifetime) is
		// ordinary punctuation.
		if l.scanChar() {
			return l.emit(KindChar), nil
		}

		l.pos++

		return l.emit(KindPunct), nil

	case '.':
		l.pos++
		return l.emit(KindDot), nil

	case ',':
		l.pos++
		return l.emit(KindComma), nil

	case ':':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == ':' {
			l.pos += 2
			return l.emit(KindPathSep), nil
		}

		l.pos++

		return l.emit(KindPunct), nil

	case '(':
		l.pos++
		return l.emit(KindLParen), nil

	case ')':
		l.pos++
		return l.emit(KindRParen), nil

	case '[':
		l.pos++
		return l.emit(KindLBracket), nil

	case ']':
		l.pos++
		return l.emit(KindRBracket), nil

	case '{':
		l.pos++
		return l.emit(KindLBrace), nil

	case '}':
		l.pos++
		return l.emit(KindRBrace), nil

	default:
		l.pos += size
		return l.emit(KindPunct), nil
	}
}

// emit builds a token from the current [start, pos) window.
func (l *Lexer) emit(k Kind) Token {
	l.prev = k

	return Token{
		Kind: k,
		Text: l.src[l.start:l.pos],
		Span: Span{Start: l.start, End: l.pos},
	}
}

// skipTrivia advances past whitespace and comments. Comments are legal
// between tokens; they survive verbatim when they sit inside a span that
// is re-sliced later.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++

		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}

		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			if !l.skipBlockComment() {
				return &Error{
					Msg:  "unterminated block comment",
					Span: Span{Start: l.pos, End: len(l.src)},
				}
			}

		default:
			return nil
		}
	}

	return nil
}

// skipBlockComment consumes a (possibly nested) block comment starting at
// l.pos. Returns false if the comment never closes.
func (l *Lexer) skipBlockComment() bool {
	depth := 0

	for l.pos < len(l.src) {
		if l.pos+1 < len(l.src) && l.src[l.pos] == '/' && l.src[l.pos+1] == '*' {
			depth++
			l.pos += 2

			continue
		}

		if l.pos+1 < len(l.src) && l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			depth--
			l.pos += 2

			if depth == 0 {
				return true
			}

			continue
		}

		l.pos++
	}

	return false
}

// scanIdent consumes an identifier starting at l.pos.
func (l *Lexer) scanIdent() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}

		l.pos += size
	}
}

// scanNumber consumes a numeric literal: a digit run with optional
// underscores and at most one fraction part.
func (l *Lexer) scanNumber() {
	l.scanDigits()

	// A number directly after a dot is a tuple index, so "t.0.1" stays
	// two indexes rather than one fractional literal. Elsewhere the
	// fraction needs a digit after the dot, keeping "0.name" as
	// Number(0) Dot Ident(name).
	if l.prev == KindDot {
		return
	}

	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(rune(l.src[l.pos+1])) {
		l.pos++
		l.scanDigits()
	}
}

func (l *Lexer) scanDigits() {
	for l.pos < len(l.src) && (isDigit(rune(l.src[l.pos])) || l.src[l.pos] == '_') {
		l.pos++
	}
}

// scanString consumes a double-quoted literal with backslash escapes.
func (l *Lexer) scanString() error {
	l.pos++ // opening quote

	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2

		case '"':
			l.pos++
			return nil

		default:
			l.pos++
		}
	}

	return &Error{
		Msg:  "unterminated string literal",
		Span: Span{Start: l.start, End: len(l.src)},
	}
}

// scanChar tries to consume a char literal ('x' or '\x') at l.pos.
// It leaves the position untouched and returns false when the quote does
// not close, so the caller can treat the tick as punctuation.
func (l *Lexer) scanChar() bool {
	rest := l.src[l.pos+1:]
	if rest == "" {
		return false
	}

	n := 0

	if rest[0] == '\\' {
		if len(rest) < 2 {
			return false
		}

		_, size := utf8.DecodeRuneInString(rest[1:])
		n = 1 + size
	} else {
		r, size := utf8.DecodeRuneInString(rest)
		if r == '\'' {
			return false
		}

		n = size
	}

	if n >= len(rest) || rest[n] != '\'' {
		return false
	}

	l.pos += 1 + n + 1

	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
