package rewrite

import (
	"strings"
	"unicode/utf8"

	"letclone/internal/diagnostic"
	"letclone/internal/scan"
)

// Invocation is one clone! occurrence found in a host file.
type Invocation struct {
	// Span covers `clone` through the closing parenthesis, plus an
	// attached trailing semicolon (spaces between are absorbed too).
	Span scan.Span
	// Content is the text between the parentheses, verbatim.
	Content string
	// ContentStart is the file offset where Content begins.
	ContentStart int
	// Indent is the leading whitespace of the line the invocation
	// starts on, reused for the statements after the first.
	Indent string
}

// Scan finds every clone! invocation in src. Occurrences inside comments,
// strings, raw strings, and char literals are skipped; an invocation
// nested in another invocation's arguments stays verbatim.
func Scan(src string) ([]Invocation, diagnostic.Diagnostics) {
	s := &hostScanner{src: src}
	s.run()

	return s.invs, s.diags
}

// hostScanner walks a source file byte by byte, consuming literals and
// comments whole so their contents can never look like an invocation.
type hostScanner struct {
	src   string
	pos   int
	invs  []Invocation
	diags diagnostic.Diagnostics
}

func (s *hostScanner) run() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()

		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()

		case c == '"':
			s.skipString()

		case c == '\'':
			s.skipCharOrLifetime()

		case isIdentByte(c) && !s.prevIsIdent():
			s.ident(true)

		default:
			s.pos++
		}
	}
}

// ident consumes an identifier and dispatches on it: literal prefixes
// swallow their literal, and `clone` may start an invocation when
// expanding is true.
func (s *hostScanner) ident(expanding bool) {
	start := s.pos

	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}

	switch s.src[start:s.pos] {
	case "r", "br", "cr":
		s.tryRawString()
	case "b", "c":
		s.tryPrefixedLiteral()
	case "clone":
		if expanding {
			s.tryInvocation(start)
		}
	}
}

// tryInvocation expects the cursor right after the `clone` identifier.
// The bang must be adjacent; whitespace may separate it from the opening
// parenthesis.
func (s *hostScanner) tryInvocation(nameStart int) {
	if s.pos >= len(s.src) || s.src[s.pos] != '!' {
		return
	}

	s.pos++

	j := s.pos
	for j < len(s.src) && isSpaceByte(s.src[j]) {
		j++
	}

	if j >= len(s.src) {
		return
	}

	switch s.src[j] {
	case '(':
	case '[', '{':
		s.diags.AddWarning(diagnostic.CodeUnsupportedExpr,
			"clone! with bracket or brace delimiters is left untouched; use parentheses",
			scan.Span{Start: nameStart, End: j + 1})

		s.pos = j + 1

		return
	default:
		return
	}

	open := j

	closing, ok := s.balanced(open)
	if !ok {
		s.diags.AddError(diagnostic.CodeUnbalanced,
			"missing closing parenthesis in clone! invocation",
			scan.Span{Start: nameStart, End: open + 1})

		s.pos = len(s.src)

		return
	}

	end := closing + 1

	j = end
	for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
		j++
	}

	if j < len(s.src) && s.src[j] == ';' {
		end = j + 1
	}

	s.invs = append(s.invs, Invocation{
		Span:         scan.Span{Start: nameStart, End: end},
		Content:      s.src[open+1 : closing],
		ContentStart: open + 1,
		Indent:       lineIndent(s.src, nameStart),
	})

	s.pos = end
}

// balanced consumes from the opening parenthesis at open to its match,
// honoring every literal form along the way, and returns the offset of
// the closing parenthesis.
func (s *hostScanner) balanced(open int) (int, bool) {
	s.pos = open
	depth := 0

	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()

		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()

		case c == '"':
			s.skipString()

		case c == '\'':
			s.skipCharOrLifetime()

		case isIdentByte(c) && !s.prevIsIdent():
			s.ident(false)

		case c == '(':
			depth++
			s.pos++

		case c == ')':
			depth--
			s.pos++

			if depth == 0 {
				return s.pos - 1, true
			}

		default:
			s.pos++
		}
	}

	return 0, false
}

func (s *hostScanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// skipBlockComment consumes a nested block comment. Running off the end
// of the file is a diagnostic, matching how a compiler would treat it.
func (s *hostScanner) skipBlockComment() {
	start := s.pos
	depth := 0

	for s.pos < len(s.src) {
		switch {
		case s.src[s.pos] == '/' && s.peek(1) == '*':
			depth++
			s.pos += 2

		case s.src[s.pos] == '*' && s.peek(1) == '/':
			depth--
			s.pos += 2

			if depth == 0 {
				return
			}

		default:
			s.pos++
		}
	}

	s.diags.AddError(diagnostic.CodeUnterminated,
		"unterminated block comment",
		scan.Span{Start: start, End: len(s.src)})
}

// skipString consumes a double-quoted literal with backslash escapes.
func (s *hostScanner) skipString() {
	start := s.pos
	s.pos++

	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2

		case '"':
			s.pos++
			return

		default:
			s.pos++
		}
	}

	s.diags.AddError(diagnostic.CodeUnterminated,
		"unterminated string literal",
		scan.Span{Start: start, End: len(s.src)})
}

// tryRawString consumes r"...", br#"..."#, and friends. The cursor sits
// right after the prefix identifier; when no raw string starts here the
// prefix was a plain identifier and nothing is consumed.
func (s *hostScanner) tryRawString() {
	start := s.pos

	hashes := 0
	for s.pos+hashes < len(s.src) && s.src[s.pos+hashes] == '#' {
		hashes++
	}

	if s.pos+hashes >= len(s.src) || s.src[s.pos+hashes] != '"' {
		return
	}

	s.pos += hashes + 1

	terminator := `"` + strings.Repeat("#", hashes)

	if i := strings.Index(s.src[s.pos:], terminator); i >= 0 {
		s.pos += i + len(terminator)
		return
	}

	s.pos = len(s.src)

	s.diags.AddError(diagnostic.CodeUnterminated,
		"unterminated raw string literal",
		scan.Span{Start: start, End: len(s.src)})
}

// tryPrefixedLiteral handles b"...", c"...", and b'x' right after their
// prefix identifier.
func (s *hostScanner) tryPrefixedLiteral() {
	if s.pos >= len(s.src) {
		return
	}

	switch s.src[s.pos] {
	case '"':
		s.skipString()
	case '\'':
		s.skipCharOrLifetime()
	}
}

// skipCharOrLifetime consumes a char literal when the quote closes, and
// just the tick otherwise, so lifetimes never eat source text.
func (s *hostScanner) skipCharOrLifetime() {
	rest := s.src[s.pos+1:]
	if rest == "" {
		s.pos++
		return
	}

	n := 0

	if rest[0] == '\\' {
		if len(rest) < 2 {
			s.pos++
			return
		}

		_, size := utf8.DecodeRuneInString(rest[1:])
		n = 1 + size
	} else {
		r, size := utf8.DecodeRuneInString(rest)
		if r == '\'' {
			s.pos++
			return
		}

		n = size
	}

	if n >= len(rest) || rest[n] != '\'' {
		s.pos++
		return
	}

	s.pos += 1 + n + 1
}

func (s *hostScanner) peek(ahead int) byte {
	if s.pos+ahead >= len(s.src) {
		return 0
	}

	return s.src[s.pos+ahead]
}

func (s *hostScanner) prevIsIdent() bool {
	if s.pos == 0 {
		return false
	}

	b := s.src[s.pos-1]

	return isIdentByte(b) || b >= utf8.RuneSelf
}

// lineIndent returns the leading whitespace of the line containing at.
func lineIndent(src string, at int) string {
	ls := strings.LastIndexByte(src[:at], '\n') + 1

	end := ls
	for end < at && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return src[ls:end]
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
