package syntax

// source is a byte reader with one character of lookahead and line tracking.
// The language is ASCII; any other byte is handed to the matchers as-is and
// rejected by all of them.
type source struct {
	buf  []byte
	offs int    // offset of ch in buf
	line uint32 // 1-based line of ch
	ch   rune   // current character, -1 at EOF
}

func newSource(buf []byte) *source {
	s := &source{buf: buf, line: 1, offs: -1}
	s.nextch()
	return s
}

// nextch advances to the next character. Leaving a '\n' starts a new line.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
	}
	s.offs++
	if s.offs >= len(s.buf) {
		s.offs = len(s.buf)
		s.ch = -1
		return
	}
	s.ch = rune(s.buf[s.offs])
}

// peek returns the character after ch, or -1.
func (s *source) peek() rune {
	if s.offs+1 >= len(s.buf) {
		return -1
	}
	return rune(s.buf[s.offs+1])
}

// skipLine discards input up to and including the next '\n'.
func (s *source) skipLine() {
	for s.ch >= 0 && s.ch != '\n' {
		s.nextch()
	}
	if s.ch == '\n' {
		s.nextch()
	}
}

// Character classification helpers

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// isIdentStart reports whether r may begin an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || isLetter(r)
}

// isIdentPart reports whether r may continue an identifier.
func isIdentPart(r rune) bool {
	return r == '_' || isLetter(r) || isDigit(r)
}

func isAlnum(r rune) bool {
	return isLetter(r) || isDigit(r)
}

// lower maps ASCII upper-case letters to lower case; ('a' - 'A') is 0x20.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
