package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/automaton"
	"github.com/npillmayer/schuko/gconf"
)

// Parser parses input with the automaton of a language. A parser may be used
// for any number of parses, but not concurrently.
type Parser struct {
	Mode         ParseMode
	MaxErrors    int
	TraceEnabled bool
	lang         *LanguageData
	observers    observerTable
	context      *ParsingContext // context of the last parse
}

// NewParser creates a parser for a language. The language data must be
// parsable (see LanguageData.CanParse).
func NewParser(lang *LanguageData) *Parser {
	return &Parser{
		lang:      lang,
		MaxErrors: DefaultMaxErrors,
	}
}

// Language returns the language data of the parser.
func (p *Parser) Language() *LanguageData {
	return p.lang
}

// Context returns the parsing context of the most recent parse, or nil.
func (p *Parser) Context() *ParsingContext {
	return p.context
}

// Parse parses a text, starting at the root of the grammar. fileName is used
// for messages only.
//
// Syntax errors are reported as messages of the resulting parse tree. An error
// is returned only if the language cannot be parsed or the parse is cancelled
// through ctx.
func (p *Parser) Parse(ctx context.Context, text, fileName string) (*ParseTree, error) {
	if !p.lang.CanParse() {
		return nil, fmt.Errorf("cannot parse with grammar %q: %w", p.lang.Grammar.Name, p.lang.Errors)
	}
	return p.parse(ctx, p.lang.ParserData.InitialState, text, fileName)
}

// ParseSnippet parses a text starting at one of the snippet roots of the
// grammar (see lr.Grammar.AddSnippetRoot).
func (p *Parser) ParseSnippet(ctx context.Context, root *lr.NonTerminal, text, fileName string) (*ParseTree, error) {
	if !p.lang.CanParse() {
		return nil, fmt.Errorf("cannot parse with grammar %q: %w", p.lang.Grammar.Name, p.lang.Errors)
	}
	initial, ok := p.lang.ParserData.InitialStateFor(root)
	if !ok {
		return nil, fmt.Errorf("%s is not a snippet root of grammar %q", root.Name(), p.lang.Grammar.Name)
	}
	return p.parse(ctx, initial, text, fileName)
}

func (p *Parser) parse(ctx context.Context, initial *automaton.ParserState, text, fileName string) (*ParseTree, error) {
	start := time.Now()
	pc := newParsingContext(ctx, p, text, fileName, initial)
	if gconf.GetBool("lalr.trace-parse") {
		pc.TraceEnabled = true
	}
	p.context = pc
	tracer().Debugf("=== parse %q =====================================", fileName)
	err := p.run(pc)
	pc.Tree.ParseTime = time.Since(start)
	tracer().Debugf("parse of %q took %v, status %s", fileName, pc.Tree.ParseTime, pc.Tree.Status)
	if err != nil {
		pc.Tree.Status = Error
		return pc.Tree, err
	}
	return pc.Tree, nil
}

// ScanOnly tokenizes a text without parsing it. The tokens are not filtered by
// expected terminals, and syntax errors are not checked. This is meant for
// clients like syntax highlighters.
func (p *Parser) ScanOnly(ctx context.Context, text, fileName string) (*ParseTree, error) {
	if p.lang.ScannerData == nil {
		return nil, fmt.Errorf("no scanner for grammar %q: %w", p.lang.Grammar.Name, p.lang.Errors)
	}
	start := time.Now()
	var initial *automaton.ParserState
	if p.lang.ParserData != nil {
		initial = p.lang.ParserData.InitialState
	}
	pc := newParsingContext(ctx, p, text, fileName, initial)
	pc.scanner.SetExpectedTerminals(nil)
	tree := pc.Tree
	defer func() { tree.ParseTime = time.Since(start) }()
	for {
		if err := ctx.Err(); err != nil {
			tree.Status = Error
			return tree, err
		}
		tok := pc.scanner.NextToken()
		tree.Tokens = append(tree.Tokens, tok)
		if tok.IsError() {
			msg, _ := tok.Value.Str()
			pc.AddMessage(lr.ErrorMessage, tok, "%s", msg)
		}
		if tok.Terminal == p.lang.Grammar.EOF {
			break
		}
	}
	if tree.HasErrors() {
		tree.Status = Error
	} else {
		tree.Status = Parsed
	}
	return tree, nil
}
