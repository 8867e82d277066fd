package pathdata

import "fmt"

// ParseError reports a malformed run of path data: an unknown command
// letter, numbers with no command, or text that isn't a number.
// The run is dropped and parsing continues after it.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("path data: offset %d: %s", e.Offset, e.Msg)
}

// ArityError reports a command run whose parameter count isn't a
// positive multiple of the command's arity.
type ArityError struct {
	Command byte
	Offset  int
	Got     int
	Arity   int
}

func (e *ArityError) Error() string {
	if e.Arity == 0 {
		return fmt.Sprintf("path data: offset %d: %c takes no parameters, got %d", e.Offset, e.Command, e.Got)
	}
	return fmt.Sprintf("path data: offset %d: %c takes a multiple of %d parameters, got %d", e.Offset, e.Command, e.Arity, e.Got)
}
