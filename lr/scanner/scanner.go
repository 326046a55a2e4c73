package scanner

import (
	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr"
)

// Scanner tokenizes an input text for a parser. The parser may tell the scanner
// which terminals it expects next; the scanner will then try those first.
//
// Tokens are buffered in a queue, which holds the parts of multi-tokens and tokens
// read during preview. A scanner is not safe for concurrent use.
type Scanner struct {
	data     *Data
	src      *SourceStream
	expected func() *lr.TerminalSet
	queue    []*lr.Token
	comments []*lr.Token // non-grammar tokens for the next content token
	last     *lr.Token   // last token scanned from source
	preview  *previewState
}

type previewState struct {
	location lalr.Location
	queueLen int
	last     *lr.Token
	comments []*lr.Token
	inx      int // next queue index to deliver
}

// New creates a scanner for text.
func New(data *Data, text, fileName string) *Scanner {
	g := data.Grammar.Grammar
	return &Scanner{
		data: data,
		src:  NewSourceStream(text, fileName, g.CaseSensitive, g.SyntaxError),
	}
}

// SetExpectedTerminals installs a function returning the terminals the parser
// expects next. If it is not set, or returns nil, all terminals are candidates.
func (sc *Scanner) SetExpectedTerminals(expected func() *lr.TerminalSet) {
	sc.expected = expected
}

// Source returns the input of the scanner.
func (sc *Scanner) Source() *SourceStream {
	return sc.src
}

// Location returns the location the scanner is at.
func (sc *Scanner) Location() lalr.Location {
	return sc.src.Location()
}

// NextToken returns the next token. At the end of input it returns tokens for
// terminal EOF. Scanner errors are returned as tokens for which IsError is true.
func (sc *Scanner) NextToken() *lr.Token {
	if sc.preview != nil {
		panic("scanner: NextToken called during preview")
	}
	if len(sc.queue) > 0 {
		tok := sc.queue[0]
		sc.queue = sc.queue[1:]
		return tok
	}
	tok := sc.scan(true)
	if tok.IsMultiToken() {
		sc.queue = append(sc.queue, tok.Parts[1:]...)
		first := tok.Parts[0]
		first.Comments = append(tok.Comments, first.Comments...)
		return first
	}
	return tok
}

// --- Preview ---------------------------------------------------------------

// BeginPreview starts reading ahead. Tokens read by PreviewToken are not
// filtered by the expected terminals.
func (sc *Scanner) BeginPreview() {
	if sc.preview != nil {
		panic("scanner: preview already active")
	}
	sc.preview = &previewState{
		location: sc.src.Location(),
		queueLen: len(sc.queue),
		last:     sc.last,
		comments: sc.comments,
	}
	tracer().Debugf("begin preview at %v", sc.src.Location())
}

// PreviewToken returns the next token during preview.
func (sc *Scanner) PreviewToken() *lr.Token {
	p := sc.preview
	if p == nil {
		panic("scanner: PreviewToken called outside of preview")
	}
	for p.inx >= len(sc.queue) {
		if sc.last != nil && sc.last.Terminal == sc.data.Grammar.Grammar.EOF {
			return sc.last
		}
		tok := sc.scan(false)
		if tok.IsMultiToken() {
			first := tok.Parts[0]
			first.Comments = append(tok.Comments, first.Comments...)
			sc.queue = append(sc.queue, tok.Parts...)
		} else {
			sc.queue = append(sc.queue, tok)
		}
	}
	tok := sc.queue[p.inx]
	p.inx++
	return tok
}

// EndPreview ends reading ahead. If keep is set, the tokens read during preview
// stay in the queue and will be delivered by NextToken. Otherwise the input is
// rewound to where the preview started.
func (sc *Scanner) EndPreview(keep bool) {
	p := sc.preview
	if p == nil {
		panic("scanner: EndPreview called outside of preview")
	}
	sc.preview = nil
	if keep {
		tracer().Debugf("end preview, keeping %d tokens", len(sc.queue)-p.queueLen)
		return
	}
	sc.queue = sc.queue[:p.queueLen]
	sc.src.SetLocation(p.location)
	sc.last = p.last
	sc.comments = p.comments
	tracer().Debugf("end preview, rewind to %v", p.location)
}

// --- Scanning --------------------------------------------------------------

// scan reads a token from the source.
func (sc *Scanner) scan(filtered bool) *lr.Token {
	g := sc.data.Grammar.Grammar
	for {
		sc.skipWhitespace()
		if sc.src.EOF() {
			if sc.data.Grammar.UsesNewLine && sc.needsFinalNewLine() {
				return sc.emit(sc.src.CreateToken(g.NewLine))
			}
			return sc.emit(sc.src.CreateToken(g.EOF))
		}
		if tok := sc.matchNonGrammar(); tok != nil {
			tracer().Debugf("non-grammar token %v", tok)
			sc.comments = append(sc.comments, tok)
			continue
		}
		break
	}
	r := sc.src.PreviewChar()
	candidates := sc.data.Candidates(r)
	if filtered {
		candidates = sc.filterExpected(candidates)
	}
	tok := sc.longestMatch(candidates)
	if tok == nil {
		tok = sc.longestMatch(sc.data.all)
	}
	if tok == nil || tok.IsError() {
		tok = sc.recover(tok)
	}
	return sc.emit(tok)
}

// needsFinalNewLine is true if the input does not end with a line break. Line
// oriented grammars get a NewLine token before EOF in this case.
func (sc *Scanner) needsFinalNewLine() bool {
	g := sc.data.Grammar.Grammar
	if sc.last == nil {
		return false
	}
	return sc.last.Terminal != g.NewLine && sc.last.Terminal != g.EOF
}

func (sc *Scanner) emit(tok *lr.Token) *lr.Token {
	sc.src.SetPreviewPosition(tok.Location.Position + tok.Length)
	sc.src.advanceLocation()
	if len(sc.comments) > 0 {
		tok.Comments = sc.comments
		sc.comments = nil
	}
	sc.last = tok
	tracer().Debugf("token %v", tok)
	return tok
}

func (sc *Scanner) skipWhitespace() {
	g := sc.data.Grammar.Grammar
	sc.src.SetPreviewPosition(sc.src.Location().Position)
	if g.SkipWhitespace != nil {
		g.SkipWhitespace(sc.src)
	} else {
		for r := sc.src.PreviewChar(); r != lr.EOFChar && sc.data.isWhitespace(r); {
			r = sc.src.NextPreviewChar()
		}
	}
	sc.src.advanceLocation()
}

func (sc *Scanner) matchNonGrammar() *lr.Token {
	list := sc.data.nonGrammarCandidates(sc.src.PreviewChar())
	if len(list) == 0 {
		return nil
	}
	tok := sc.longestMatch(list)
	if tok == nil || tok.IsError() {
		sc.src.SetPreviewPosition(sc.src.Location().Position)
		return nil
	}
	sc.src.SetPreviewPosition(tok.Location.Position + tok.Length)
	sc.src.advanceLocation()
	return tok
}

// filterExpected reduces candidates to the terminals expected by the parser. If
// none of the candidates is expected, all of them are returned, to let the parser
// report the error.
func (sc *Scanner) filterExpected(candidates []lr.Terminal) []lr.Terminal {
	if sc.expected == nil {
		return candidates
	}
	expected := sc.expected()
	if expected == nil {
		return candidates
	}
	var filtered []lr.Terminal
	for _, t := range candidates {
		if expected.Contains(lr.OutputOf(t)) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// longestMatch tries candidates in order and returns the longest token. For
// tokens of equal length, the earlier candidate wins. Error tokens are returned
// only if no candidate matched.
func (sc *Scanner) longestMatch(candidates []lr.Terminal) *lr.Token {
	start := sc.src.Location().Position
	var best, errTok *lr.Token
	for _, t := range candidates {
		sc.src.SetPreviewPosition(start)
		tok := t.TryMatch(sc.src)
		if tok == nil || (tok.Length == 0 && !tok.IsError()) {
			continue
		}
		if tok.IsError() {
			if errTok == nil {
				errTok = tok
			}
			continue
		}
		if best == nil || tok.Length > best.Length {
			best = tok
		}
	}
	sc.src.SetPreviewPosition(start)
	if best == nil {
		return errTok
	}
	return best
}

// recover creates an error token if no terminal matched, and skips input up to the
// next whitespace or delimiter.
func (sc *Scanner) recover(errTok *lr.Token) *lr.Token {
	if errTok != nil && errTok.Length > 0 {
		return errTok
	}
	r := sc.src.PreviewChar()
	for sc.src.NextPreviewChar(); !sc.src.EOF(); sc.src.NextPreviewChar() {
		if sc.data.isDelimiter(sc.src.PreviewChar()) {
			break
		}
	}
	if errTok != nil {
		msg, _ := errTok.Value.Str()
		return sc.src.CreateErrorToken("%s", msg)
	}
	return sc.src.CreateErrorToken("invalid character: %q", r)
}

// ScanAll tokenizes the complete input without parser guidance. The result
// ends with an EOF token.
func (sc *Scanner) ScanAll() []*lr.Token {
	var tokens []*lr.Token
	for {
		tok := sc.NextToken()
		tokens = append(tokens, tok)
		if tok.Terminal == sc.data.Grammar.Grammar.EOF {
			return tokens
		}
	}
}
