package ast

import "fmt"

// Location represents a position in a rule-set source file.
// Line and column come from the YAML/JSON decoder and are used for
// error reporting during structural validation.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsValid returns true if the location has meaningful position information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// String returns the location formatted as "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
