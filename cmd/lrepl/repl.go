package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lalr/lr/parser"
	"github.com/pterm/pterm"
)

const continuationPrompt = "...> "

// Intp is an interactive parser. Input which ends prematurely is kept and
// continued with the next line.
type Intp struct {
	lang       *parser.LanguageData
	parser     *parser.Parser
	repl       *readline.Instance
	prompt     string
	pending    string
	evaluate   bool // evaluate arithmetic expressions
	showTokens bool
	lastTree   *parser.ParseTree
}

func newIntp(opts *options) *Intp {
	p := parser.NewParser(opts.lang)
	p.Mode = parser.ModeCommandLine
	if opts.config.REPL.MaxErrors > 0 {
		p.MaxErrors = opts.config.REPL.MaxErrors
	}
	return &Intp{
		lang:     opts.lang,
		parser:   p,
		prompt:   opts.config.REPL.Prompt,
		evaluate: opts.builtin,
	}
}

func runREPL(opts *options, input string) error {
	initDisplay()
	intp := newIntp(opts)
	repl, err := readline.New(intp.prompt)
	if err != nil {
		return err
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Welcome to LREPL [grammar " + opts.lang.Grammar.Name + "]")
	if input != "" {
		intp.Eval(input)
	}
	tracer().Infof("Quit with <ctrl>D or :quit")
	intp.loop()
	return nil
}

func (intp *Intp) loop() {
	for {
		line, err := intp.repl.Readline()
		if err == readline.ErrInterrupt && intp.pending != "" {
			intp.reset()
			continue
		} else if err != nil { // io.EOF or interrupt
			break
		}
		if intp.pending == "" {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, ":") {
				if quit := intp.Command(line); quit {
					break
				}
				continue
			}
		}
		intp.Eval(line)
	}
	pterm.Println("Good bye!")
}

// Eval parses a line of input. If the input is incomplete, the tree has
// status Partial and the line is kept for the next call.
func (intp *Intp) Eval(line string) *parser.ParseTree {
	text := line
	if intp.pending != "" {
		text = intp.pending + "\n" + line
	}
	tree, err := intp.parser.Parse(context.Background(), text, "<repl>")
	if err != nil {
		pterm.Error.Println(err.Error())
		intp.reset()
		return nil
	}
	intp.lastTree = tree
	if intp.parser.TraceEnabled {
		printTrace(tree)
	}
	if tree.Status == parser.Partial {
		intp.pending = text
		intp.setPrompt(continuationPrompt)
		return tree
	}
	intp.reset()
	if intp.showTokens {
		printTokens(tree)
	}
	printMessages(tree)
	if tree.Status != parser.Parsed {
		return tree
	}
	if x, ok := evaluate(tree); ok && intp.evaluate {
		pterm.Info.Println(fmt.Sprintf("%g", x))
	} else {
		printTree(tree)
	}
	tracer().Debugf("parsed in %d ms", tree.ParseTimeMilliseconds())
	return tree
}

func (intp *Intp) reset() {
	intp.pending = ""
	intp.setPrompt(intp.prompt)
}

func (intp *Intp) setPrompt(prompt string) {
	if intp.repl != nil {
		intp.repl.SetPrompt(prompt)
	}
}

var commandHelp = [][]string{
	{":quit", "leave LREPL"},
	{":tree", "print the tree of the last input"},
	{":tokens", "toggle printing of tokens"},
	{":trace", "toggle the parser trace"},
	{":grammar", "print the productions of the grammar"},
	{":states", "print the ACTION table"},
	{":help", "print this list"},
}

// Command executes a REPL command. It returns true if the REPL should quit.
func (intp *Intp) Command(cmd string) bool {
	switch strings.Fields(cmd)[0] {
	case ":quit", ":q":
		return true
	case ":tree":
		if intp.lastTree != nil {
			printTree(intp.lastTree)
		}
	case ":tokens":
		intp.showTokens = !intp.showTokens
		pterm.Info.Println(fmt.Sprintf("tokens %s", onOff(intp.showTokens)))
	case ":trace":
		intp.parser.TraceEnabled = !intp.parser.TraceEnabled
		pterm.Info.Println(fmt.Sprintf("parser trace %s", onOff(intp.parser.TraceEnabled)))
	case ":grammar":
		for _, p := range intp.lang.GrammarData.Productions {
			pterm.Println(p.String())
		}
	case ":states":
		pterm.Println(intp.lang.ParserData.Tables().ActionTableAsText(120))
	case ":help":
		pterm.DefaultTable.WithData(commandHelp).Render()
	default:
		pterm.Error.Println(fmt.Sprintf("unknown command %s, try :help", cmd))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
