package syntax

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MatchState is the state of a Matcher after reading a character.
type MatchState uint8

const (
	// StateReading: the character was consumed and the match may go on.
	StateReading MatchState = iota
	// StateAccept: the character completes a match; the next one is not part of it.
	StateAccept
	// StateReject: the input read so far can never be matched.
	StateReject
	// StateError: the input is a malformed instance of the matcher's literal family.
	StateError
)

var matchStateNames = [...]string{
	StateReading: "reading",
	StateAccept:  "accept",
	StateReject:  "reject",
	StateError:   "error",
}

func (s MatchState) String() string {
	if int(s) < len(matchStateNames) {
		return matchStateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// A Matcher recognizes a single token kind one character at a time.
//
// Read consumes cur and uses next only as lookahead: a matcher reports
// StateAccept exactly when cur ends a valid token that next cannot extend.
type Matcher interface {
	Kind() Kind
	Reset()
	Read(cur, next rune) MatchState
	State() MatchState
	Value() string
	ErrorMessage() (string, bool)
}

// StringMatcher matches one fixed spelling: a keyword, operator or delimiter.
// Keywords are additionally required to end on an identifier boundary, so
// "int" never matches the prefix of "integer".
type StringMatcher struct {
	kind  Kind
	lit   string
	word  bool // lit is spelled like an identifier
	n     int  // characters matched so far
	state MatchState
}

// NewStringMatcher returns a matcher for the literal spelling lit.
func NewStringMatcher(kind Kind, lit string) *StringMatcher {
	return &StringMatcher{
		kind: kind,
		lit:  lit,
		word: lit != "" && isIdentStart(rune(lit[0])),
	}
}

func (m *StringMatcher) Kind() Kind        { return m.kind }
func (m *StringMatcher) State() MatchState { return m.state }
func (m *StringMatcher) Value() string     { return m.lit }

func (m *StringMatcher) ErrorMessage() (string, bool) { return "", false }

func (m *StringMatcher) Reset() {
	m.n = 0
	m.state = StateReading
}

func (m *StringMatcher) Read(cur, next rune) MatchState {
	if m.n >= len(m.lit) || rune(m.lit[m.n]) != cur {
		m.state = StateReject
		return m.state
	}
	m.n++
	switch {
	case m.n < len(m.lit):
		if rune(m.lit[m.n]) == next {
			m.state = StateReading
		} else {
			m.state = StateReject
		}
	case m.word && isIdentPart(next):
		m.state = StateReject
	default:
		m.state = StateAccept
	}
	return m.state
}

// IdentifierMatcher matches identifiers. Reserved spellings are rejected so
// that a keyword is always claimed by its StringMatcher alone.
type IdentifierMatcher struct {
	reserved map[string]Kind
	buf      strings.Builder
	state    MatchState
}

// NewIdentifierMatcher returns an identifier matcher that refuses the
// spellings in reserved.
func NewIdentifierMatcher(reserved map[string]Kind) *IdentifierMatcher {
	return &IdentifierMatcher{reserved: reserved}
}

func (m *IdentifierMatcher) Kind() Kind        { return _Ident }
func (m *IdentifierMatcher) State() MatchState { return m.state }
func (m *IdentifierMatcher) Value() string     { return m.buf.String() }

func (m *IdentifierMatcher) ErrorMessage() (string, bool) { return "", false }

func (m *IdentifierMatcher) Reset() {
	m.buf.Reset()
	m.state = StateReading
}

func (m *IdentifierMatcher) Read(cur, next rune) MatchState {
	ok := isIdentPart(cur)
	if m.buf.Len() == 0 {
		ok = isIdentStart(cur)
	}
	if !ok {
		m.state = StateReject
		return m.state
	}
	m.buf.WriteRune(cur)
	switch {
	case isIdentPart(next):
		m.state = StateReading
	case m.reserved[m.buf.String()] != 0:
		m.state = StateReject
	default:
		m.state = StateAccept
	}
	return m.state
}

// IntegerMatcher matches decimal, octal and hexadecimal integer literals.
// The radix is fixed by the first two characters: "0x"/"0X" is hexadecimal,
// any other literal starting with '0' is octal, everything else decimal.
// Characters are collected while the next one is alphanumeric and the
// result is validated once the literal ends.
type IntegerMatcher struct {
	buf   []byte
	radix int
	value string
	msg   string
	state MatchState
}

func NewIntegerMatcher() *IntegerMatcher {
	return &IntegerMatcher{}
}

func (m *IntegerMatcher) Kind() Kind        { return _IntLit }
func (m *IntegerMatcher) State() MatchState { return m.state }

// Value returns the literal's value in decimal.
func (m *IntegerMatcher) Value() string { return m.value }

func (m *IntegerMatcher) ErrorMessage() (string, bool) {
	return m.msg, m.state == StateError
}

func (m *IntegerMatcher) Reset() {
	m.buf = m.buf[:0]
	m.radix = 0
	m.value = ""
	m.msg = ""
	m.state = StateReading
}

func (m *IntegerMatcher) Read(cur, next rune) MatchState {
	if len(m.buf) == 0 {
		if !isDigit(cur) {
			m.state = StateReject
			return m.state
		}
		switch {
		case cur == '0' && lower(next) == 'x':
			m.radix = 16
		case cur == '0':
			m.radix = 8
		default:
			m.radix = 10
		}
	} else if !isAlnum(cur) {
		m.state = StateReject
		return m.state
	}
	m.buf = append(m.buf, byte(cur))
	if isAlnum(next) {
		m.state = StateReading
		return m.state
	}
	m.finish()
	return m.state
}

var radixNames = map[int]string{
	8:  "octal",
	10: "decimal",
	16: "hexadecimal",
}

// finish validates the collected literal and computes its decimal value.
func (m *IntegerMatcher) finish() {
	lit := string(m.buf)
	var digits string
	switch m.radix {
	case 16:
		digits = lit[2:]
	case 8:
		digits = lit[1:]
	default:
		digits = lit
	}

	valid := m.radix != 16 || digits != ""
	for i := 0; i < len(digits) && valid; i++ {
		valid = digitVal(rune(digits[i])) < m.radix
	}
	if !valid {
		m.fail(fmt.Sprintf("invalid %s literal %q", radixNames[m.radix], lit))
		return
	}

	var v int64
	for i := 0; i < len(digits); i++ {
		d := int64(digitVal(rune(digits[i])))
		if v > (math.MaxInt64-d)/int64(m.radix) {
			m.fail(fmt.Sprintf("integer literal %q out of range", lit))
			return
		}
		v = v*int64(m.radix) + d
	}
	m.value = strconv.FormatInt(v, 10)
	m.state = StateAccept
}

func (m *IntegerMatcher) fail(msg string) {
	m.msg = msg
	m.state = StateError
}

// digitVal returns the value of a digit in any radix up to 16, or 16 for
// characters that are not digits at all.
func digitVal(r rune) int {
	switch {
	case isDigit(r):
		return int(r - '0')
	case isHexDigit(r):
		return int(lower(r) - 'a' + 10)
	}
	return 16
}

// newMatchers returns a fresh matcher set. Every lexer owns its own set.
func newMatchers() []Matcher {
	ms := make([]Matcher, 0, int(kindCount))
	for k := _Lparen; k <= _Return; k++ {
		ms = append(ms, NewStringMatcher(k, k.Value()))
	}
	return append(ms, NewIdentifierMatcher(keywords), NewIntegerMatcher())
}
