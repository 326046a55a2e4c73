package terminals

import (
	"fmt"
	"sync"

	"github.com/npillmayer/lalr/lr"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Regex is a terminal for tokens described by a regular expression. The
// expression is compiled to a DFA by lexmachine, which finds the longest match
// at the current input position.
//
// As regular expressions do not tell their first characters, clients should
// provide them if possible. Otherwise the terminal is tried on every input.
type Regex struct {
	lr.TerminalBase
	Pattern string
	firsts  []string
	lexer   *lexmachine.Lexer
	mx      sync.Mutex // guards the input cache
	text    string
	input   []byte
}

// NewRegex creates a terminal for a regular expression in lexmachine syntax.
// It returns an error if the pattern cannot be compiled.
func NewRegex(name string, pattern string, firsts ...string) (*Regex, error) {
	re := &Regex{
		TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.NormalPriority),
		Pattern:      pattern,
		firsts:       firsts,
	}
	re.lexer = lexmachine.NewLexer()
	re.lexer.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, string(m.Bytes), m), nil
	})
	if err := compile(re.lexer, pattern); err != nil {
		tracer().Errorf("error compiling DFA for %s: %v", name, err)
		return nil, fmt.Errorf("regex terminal %s: %w", name, err)
	}
	return re, nil
}

// compile builds the DFA of a lexer. lexmachine may crash on malformed
// patterns instead of reporting an error; this is turned into an error, too.
func compile(lexer *lexmachine.Lexer, pattern string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lr: cannot compile pattern %q: %v", pattern, r)
		}
	}()
	return lexer.Compile()
}

// MustRegex is like NewRegex, but panics if the pattern cannot be compiled.
// It is meant for grammars defined in code.
func MustRegex(name string, pattern string, firsts ...string) *Regex {
	re, err := NewRegex(name, pattern, firsts...)
	if err != nil {
		panic(err)
	}
	return re
}

// Init is part of interface lr.Terminal.
func (re *Regex) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal.
func (re *Regex) Firsts() []string {
	return re.firsts
}

// TryMatch is part of interface lr.Terminal.
func (re *Regex) TryMatch(src lr.Source) *lr.Token {
	pos := src.PreviewPosition()
	s, err := re.lexer.Scanner(re.bytes(src.Text()))
	if err != nil {
		tracer().Errorf("regex terminal %s: %v", re.Name(), err)
		return nil
	}
	s.TC = pos
	tok, err, eof := s.Next()
	if err != nil || eof || tok == nil {
		return nil
	}
	match := tok.(*lexmachine.Token)
	if match.TC != pos || len(match.Lexeme) == 0 {
		return nil
	}
	src.SetPreviewPosition(pos + len(match.Lexeme))
	return src.CreateToken(re)
}

// bytes returns the input as a byte slice. Scanners for the same text share
// the slice, which lexmachine only reads.
func (re *Regex) bytes(text string) []byte {
	re.mx.Lock()
	defer re.mx.Unlock()
	if re.input == nil || re.text != text {
		re.text = text
		re.input = []byte(text)
	}
	return re.input
}
