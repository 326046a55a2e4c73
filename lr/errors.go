package lr

import (
	"fmt"
	"strings"
)

// GrammarErrorLevel is the severity of a problem found while compiling a grammar.
type GrammarErrorLevel int8

// Grammar error levels, in increasing severity. Conflicts are not fatal: the
// resulting parser is usable, but will resolve the ambiguity by a default.
// Error and above stop grammar compilation.
const (
	NoError GrammarErrorLevel = iota
	Info
	Warning
	Conflict
	Error
	InternalError
)

func (l GrammarErrorLevel) String() string {
	switch l {
	case NoError:
		return "none"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Conflict:
		return "conflict"
	case Error:
		return "error"
	}
	return "internal error"
}

// GrammarError is a problem found while compiling a grammar. State is the name
// of the parser state the problem is related to, if any.
type GrammarError struct {
	Level   GrammarErrorLevel
	State   string
	Message string
}

func (e *GrammarError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s: %s", e.Level, e.Message)
	}
	return fmt.Sprintf("%s: %s (state %s)", e.Level, e.Message, e.State)
}

// GrammarErrorList collects the problems found during grammar compilation.
// It implements the error interface and is returned by construction functions
// if a fatal problem was found. Problems recorded before remain in the list.
type GrammarErrorList struct {
	Errors []*GrammarError
}

// Add records a problem.
func (el *GrammarErrorList) Add(level GrammarErrorLevel, state string, format string, args ...interface{}) *GrammarError {
	e := &GrammarError{
		Level:   level,
		State:   state,
		Message: fmt.Sprintf(format, args...),
	}
	el.Errors = append(el.Errors, e)
	tracer().Debugf("grammar %s", e.Error())
	return e
}

// MaxLevel returns the highest error level recorded.
func (el *GrammarErrorList) MaxLevel() GrammarErrorLevel {
	max := NoError
	for _, e := range el.Errors {
		if e.Level > max {
			max = e.Level
		}
	}
	return max
}

// Count returns the number of recorded problems with at least the given level.
func (el *GrammarErrorList) Count(level GrammarErrorLevel) int {
	n := 0
	for _, e := range el.Errors {
		if e.Level >= level {
			n++
		}
	}
	return n
}

func (el *GrammarErrorList) Error() string {
	var msgs []string
	for _, e := range el.Errors {
		if e.Level >= Error {
			msgs = append(msgs, e.Error())
		}
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("grammar has %d problem(s), none fatal", len(el.Errors))
	}
	return strings.Join(msgs, "; ")
}
