package syntax

import (
	"strings"
	"testing"
)

// feed runs m over s as the lexer would and returns the state after each
// character.
func feed(m Matcher, s string) []MatchState {
	m.Reset()
	var states []MatchState
	for i := 0; i < len(s); i++ {
		next := rune(-1)
		if i+1 < len(s) {
			next = rune(s[i+1])
		}
		states = append(states, m.Read(rune(s[i]), next))
		if st := m.State(); st == StateReject || st == StateError {
			break
		}
	}
	return states
}

func lastState(m Matcher, s string) MatchState {
	states := feed(m, s)
	return states[len(states)-1]
}

func TestStringMatcher(t *testing.T) {
	tests := []struct {
		lit   string
		input string
		want  MatchState
	}{
		{"<=", "<=", StateAccept},
		{"<=", "<", StateReject},
		{"<=", "<>", StateReject},
		{"<", "<", StateAccept},
		{"<", "<=", StateAccept}, // accepts on '<'; the lexer lets "<=" win
		{"int", "int", StateAccept},
		{"int", "int(", StateAccept},
		{"int", "intx", StateReject},
		{"int", "int_", StateReject},
		{"int", "in", StateReject},
		{"if", "iff", StateReject},
		{"(", "((", StateAccept},
	}
	for _, tt := range tests {
		t.Run(tt.lit+"/"+tt.input, func(t *testing.T) {
			m := NewStringMatcher(_EOF, tt.lit)
			states := feed(m, tt.input)
			var got MatchState
			for _, st := range states {
				got = st
				if st == StateAccept || st == StateReject {
					break
				}
			}
			if got != tt.want {
				t.Errorf("states %v, want final %s", states, tt.want)
			}
		})
	}
}

func TestStringMatcherAcceptThenReject(t *testing.T) {
	m := NewStringMatcher(_Lss, "<")
	m.Reset()
	if st := m.Read('<', '='); st != StateAccept {
		t.Fatalf("Read('<') = %s, want accept", st)
	}
	if st := m.Read('=', -1); st != StateReject {
		t.Errorf("Read after accept = %s, want reject", st)
	}
}

func TestIdentifierMatcher(t *testing.T) {
	tests := []struct {
		input string
		want  MatchState
		value string
	}{
		{"x", StateAccept, "x"},
		{"_tmp1", StateAccept, "_tmp1"},
		{"integer", StateAccept, "integer"},
		{"int", StateReject, ""},
		{"while", StateReject, ""},
		{"1abc", StateReject, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := NewIdentifierMatcher(keywords)
			if got := lastState(m, tt.input); got != tt.want {
				t.Fatalf("final state = %s, want %s", got, tt.want)
			}
			if tt.want == StateAccept && m.Value() != tt.value {
				t.Errorf("Value() = %q, want %q", m.Value(), tt.value)
			}
		})
	}
}

func TestIntegerMatcher(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{"0", "0"},
		{"8", "8"},
		{"010", "8"},
		{"0x8", "8"},
		{"0X1f", "31"},
		{"0xDeAdBeEf", "3735928559"},
		{"0777", "511"},
		{"2147483648", "2147483648"},
		{"9223372036854775807", "9223372036854775807"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := NewIntegerMatcher()
			if got := lastState(m, tt.input); got != StateAccept {
				t.Fatalf("final state = %s, want accept", got)
			}
			if m.Value() != tt.value {
				t.Errorf("Value() = %q, want %q", m.Value(), tt.value)
			}
			if _, ok := m.ErrorMessage(); ok {
				t.Errorf("ErrorMessage() reported an error")
			}
		})
	}
}

func TestIntegerMatcherErrors(t *testing.T) {
	tests := []struct {
		input string
		radix string
	}{
		{"0x", "hexadecimal"},
		{"0xg1", "hexadecimal"},
		{"09", "octal"},
		{"0128", "octal"},
		{"12ab", "decimal"},
		{"9223372036854775808", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := NewIntegerMatcher()
			if got := lastState(m, tt.input); got != StateError {
				t.Fatalf("final state = %s, want error", got)
			}
			msg, ok := m.ErrorMessage()
			if !ok {
				t.Fatal("ErrorMessage() reported no error")
			}
			if !strings.Contains(msg, tt.radix) || !strings.Contains(msg, tt.input) {
				t.Errorf("ErrorMessage() = %q, want mention of %q and %q", msg, tt.radix, tt.input)
			}
		})
	}
}

func TestIntegerMatcherReset(t *testing.T) {
	m := NewIntegerMatcher()
	lastState(m, "09")
	if got := lastState(m, "7"); got != StateAccept || m.Value() != "7" {
		t.Errorf("after reset: state %s value %q, want accept \"7\"", got, m.Value())
	}
}

func TestNewMatchersFresh(t *testing.T) {
	a, b := newMatchers(), newMatchers()
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("matcher sets have lengths %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] == b[i] {
			t.Fatalf("matcher %d (%s) shared between sets", i, a[i].Kind())
		}
	}
}
