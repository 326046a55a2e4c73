package parser

import (
	"time"

	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/automaton"
	"github.com/npillmayer/lalr/lr/scanner"
)

// LanguageData is the compiled form of a grammar: grammar data, scanner tables
// and the LALR automaton. It is read-only after construction and safe for
// concurrent use by multiple parsers.
type LanguageData struct {
	Grammar          *lr.Grammar
	GrammarData      *lr.GrammarData
	ScannerData      *scanner.Data
	ParserData       *automaton.ParserData
	Errors           *lr.GrammarErrorList
	ConstructionTime time.Duration
}

// NewLanguageData compiles a grammar. Problems are collected in the Errors
// of the language data; NewLanguageData does not fail. Clients should check
// CanParse before using the language data for parsing.
func NewLanguageData(g *lr.Grammar) *LanguageData {
	start := time.Now()
	lang := &LanguageData{
		Grammar: g,
		Errors:  &lr.GrammarErrorList{},
	}
	defer func() {
		lang.ConstructionTime = time.Since(start)
		tracer().Infof("language data for %q constructed in %v, error level %s",
			g.Name, lang.ConstructionTime, lang.ErrorLevel())
	}()
	gd, err := lr.BuildGrammarData(g, lang.Errors)
	lang.GrammarData = gd
	if err != nil {
		return lang
	}
	lang.ScannerData = scanner.BuildScannerData(gd)
	pd, err := automaton.Build(gd, lang.Errors)
	if err != nil {
		return lang
	}
	lang.ParserData = pd
	return lang
}

// CanParse is true if the grammar has been compiled without fatal errors.
func (lang *LanguageData) CanParse() bool {
	return lang.ParserData != nil && lang.ErrorLevel() < lang.Grammar.FatalLevel
}

// ErrorLevel returns the highest level of grammar errors found during
// construction.
func (lang *LanguageData) ErrorLevel() lr.GrammarErrorLevel {
	return lang.Errors.MaxLevel()
}
