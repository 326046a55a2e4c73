package lr

import (
	"fmt"

	"github.com/npillmayer/lalr"
)

// MessageLevel is the severity of a message issued while parsing.
type MessageLevel int8

// Levels of parser messages.
const (
	InfoMessage MessageLevel = iota
	WarningMessage
	ErrorMessage
)

func (l MessageLevel) String() string {
	switch l {
	case InfoMessage:
		return "info"
	case WarningMessage:
		return "warning"
	}
	return "error"
}

// LogMessage is a diagnostic collected during a parse. ParserState is the name
// of the parser state the message was issued in, if any.
type LogMessage struct {
	Level       MessageLevel
	Location    lalr.Location
	Message     string
	ParserState string
}

func (m LogMessage) String() string {
	return fmt.Sprintf("%v %s: %s", m.Location, m.Level, m.Message)
}
