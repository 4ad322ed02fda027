package syntax

import "fmt"

// lexer drives a matcher set over a source.
type lexer struct {
	src      *source
	matchers []Matcher
	toks     []Token
	errs     []*Error
}

// Tokenize splits src into tokens.
//
// A lexical error never stops tokenization: the error is recorded, the rest
// of the offending line is discarded and lexing resumes on the next line.
func Tokenize(src []byte) ([]Token, []*Error) {
	l := &lexer{
		src:      newSource(src),
		matchers: newMatchers(),
	}
	for l.next() {
	}
	return l.toks, l.errs
}

// next scans one token or one error. It reports false at end of input.
func (l *lexer) next() bool {
	s := l.src
	for isSpace(s.ch) {
		s.nextch()
	}
	if s.ch < 0 {
		return false
	}

	for _, m := range l.matchers {
		m.Reset()
	}
	line := s.line

	for {
		cur, next := s.ch, s.peek()
		var (
			reading  bool
			accepted Matcher
			failed   Matcher
		)
		for _, m := range l.matchers {
			if m.State() == StateReject {
				continue
			}
			switch m.Read(cur, next) {
			case StateReading:
				reading = true
			case StateAccept:
				if accepted != nil {
					panic(fmt.Sprintf("syntax: %s and %s both accept at line %d", accepted.Kind(), m.Kind(), line))
				}
				accepted = m
			case StateError:
				if failed == nil {
					failed = m
				}
			}
		}
		s.nextch()

		switch {
		case failed != nil:
			msg, ok := failed.ErrorMessage()
			if !ok {
				msg = invalidChar(cur)
			}
			l.error(line, msg)
			return true
		case accepted == nil && !reading:
			l.error(line, invalidChar(cur))
			return true
		case accepted != nil && !reading:
			l.toks = append(l.toks, Token{Kind: accepted.Kind(), Text: accepted.Value(), Line: line})
			return true
		}

		if s.ch < 0 {
			l.error(line, "unexpected end of input")
			return false
		}
	}
}

// error records a lexical error and drops the rest of the current line.
func (l *lexer) error(line uint32, msg string) {
	l.errs = append(l.errs, &Error{Line: line, Msg: msg})
	if l.src.line == line {
		l.src.skipLine()
	}
}

func invalidChar(r rune) string {
	return fmt.Sprintf("invalid character %q", r)
}
