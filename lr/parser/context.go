package parser

import (
	"context"
	"fmt"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/automaton"
	"github.com/npillmayer/lalr/lr/scanner"
)

// ParseMode tells the parser how to treat incomplete input.
type ParseMode int8

// In command line mode, input ending prematurely is accepted as partial.
const (
	ModeFile ParseMode = iota
	ModeCommandLine
)

// DefaultMaxErrors is the default limit of error messages per parse.
const DefaultMaxErrors = 20

// ParsingContext holds the state of a single parse. It is handed to
// observers, custom conflict resolvers and preview conditions, and must not be
// retained after the parse ends.
//
// ParsingContext implements lr.ActionContext.
type ParsingContext struct {
	Mode         ParseMode
	MaxErrors    int
	TraceEnabled bool
	Tree         *ParseTree
	lang         *LanguageData
	ctx          context.Context
	scanner      *scanner.Scanner
	stack        *ParserStack
	input        *ParseTreeNode // current input, nil if not yet read
	braces       []*lr.Token    // open braces
	errorsCapped bool
}

var _ lr.ActionContext = (*ParsingContext)(nil)

func newParsingContext(ctx context.Context, p *Parser, text, fileName string,
	initial *automaton.ParserState) *ParsingContext {
	//
	pc := &ParsingContext{
		Mode:         p.Mode,
		MaxErrors:    p.MaxErrors,
		TraceEnabled: p.TraceEnabled,
		Tree:         newParseTree(text, fileName),
		lang:         p.lang,
		ctx:          ctx,
		scanner:      scanner.New(p.lang.ScannerData, text, fileName),
		stack:        newParserStack(initial),
	}
	if pc.MaxErrors <= 0 {
		pc.MaxErrors = DefaultMaxErrors
	}
	pc.scanner.SetExpectedTerminals(func() *lr.TerminalSet {
		return pc.stack.TopState().ExpectedTerminals
	})
	return pc
}

// Language returns the language data of the parse.
func (pc *ParsingContext) Language() *LanguageData {
	return pc.lang
}

// Stack returns the parser stack.
func (pc *ParsingContext) Stack() *ParserStack {
	return pc.stack
}

// CurrentState returns the parser state at the top of the stack.
func (pc *ParsingContext) CurrentState() *automaton.ParserState {
	return pc.stack.TopState()
}

// CurrentToken is part of interface lr.ActionContext. It returns nil if the
// parser has not read the current input yet.
func (pc *ParsingContext) CurrentToken() *lr.Token {
	if pc.input == nil {
		return nil
	}
	return pc.input.Token
}

// StackDepth is part of interface lr.ActionContext.
func (pc *ParsingContext) StackDepth() int {
	return pc.stack.Depth()
}

// StackTerm is part of interface lr.ActionContext.
func (pc *ParsingContext) StackTerm(d int) lr.Term {
	if node := pc.stack.At(d); node != nil {
		return node.Term
	}
	return nil
}

// Preview is part of interface lr.ActionContext. It reads tokens following the
// current input, without consuming them. Cancellation of the parse interrupts
// a preview.
func (pc *ParsingContext) Preview(max int, visit func(*lr.Token) bool) error {
	eof := pc.lang.Grammar.EOF
	if tok := pc.CurrentToken(); tok != nil && tok.Terminal == eof {
		return nil
	}
	pc.scanner.BeginPreview()
	defer pc.scanner.EndPreview(false)
	for i := 0; i < max; i++ {
		if err := pc.ctx.Err(); err != nil {
			return err
		}
		tok := pc.scanner.PreviewToken()
		if !visit(tok) || tok.Terminal == eof {
			return nil
		}
	}
	tracer().Debugf("preview stopped after %d tokens", max)
	return nil
}

// AddMessage adds a message to the parse tree. Error messages beyond
// MaxErrors are dropped.
func (pc *ParsingContext) AddMessage(level lr.MessageLevel, tok *lr.Token, format string, args ...interface{}) {
	if level == lr.ErrorMessage && pc.Tree.errorCount() >= pc.MaxErrors {
		if !pc.errorsCapped {
			tracer().Infof("more than %d errors, dropping messages", pc.MaxErrors)
			pc.errorsCapped = true
		}
		return
	}
	msg := lr.LogMessage{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}
	if s := pc.stack.TopState(); s != nil {
		msg.ParserState = s.Name
	}
	if tok != nil {
		msg.Location = tok.Location
	} else {
		msg.Location = pc.scanner.Location()
	}
	pc.Tree.ParserMessages = append(pc.Tree.ParserMessages, msg)
	tracer().Debugf("%s", msg)
}
