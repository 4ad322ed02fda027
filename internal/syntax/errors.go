package syntax

import "fmt"

// Error is a lexical or syntax error at a source line.
type Error struct {
	Line uint32
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
