package terminals

import (
	"errors"
	"strconv"

	"github.com/npillmayer/lalr/lr"
)

// NumberOptions control which number formats a Number terminal accepts.
type NumberOptions uint8

// Options for numbers.
const (
	IntOnly     NumberOptions = 1 << iota // no fractions or exponents
	AllowHex                              // 0x prefix
	AllowBinary                           // 0b prefix
	AllowSign                             // leading + or -
)

// Number is a terminal for numeric literals. Integer literals get an integer
// value, numbers with a fraction or exponent a float value.
type Number struct {
	lr.TerminalBase
	Options NumberOptions
}

// NewNumber creates a terminal for decimal numbers.
func NewNumber(name string, opts ...NumberOptions) *Number {
	n := &Number{TerminalBase: lr.MakeTerminalBase(name, lr.Content, lr.NormalPriority)}
	for _, o := range opts {
		n.Options |= o
	}
	n.SetErrorAlias("number")
	return n
}

// Init is part of interface lr.Terminal.
func (n *Number) Init(gd *lr.GrammarData) {}

// Firsts is part of interface lr.Terminal.
func (n *Number) Firsts() []string {
	firsts := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	if n.Options&AllowSign != 0 {
		firsts = append(firsts, "+", "-")
	}
	return firsts
}

// TryMatch is part of interface lr.Terminal.
func (n *Number) TryMatch(src lr.Source) *lr.Token {
	r := src.PreviewChar()
	if n.Options&AllowSign != 0 && (r == '+' || r == '-') {
		r = src.NextPreviewChar()
	}
	if !isDigit(r, 10) {
		return nil
	}
	start := src.PreviewPosition()
	if r == '0' {
		switch p := peek(src); {
		case (p == 'x' || p == 'X') && n.Options&AllowHex != 0:
			return n.matchRadix(src, start, 16)
		case (p == 'b' || p == 'B') && n.Options&AllowBinary != 0:
			return n.matchRadix(src, start, 2)
		}
	}
	isFloat := false
	skipDigits(src, 10)
	if n.Options&IntOnly == 0 {
		if src.PreviewChar() == '.' && isDigit(peek(src), 10) {
			src.NextPreviewChar()
			skipDigits(src, 10)
			isFloat = true
		}
		if r := src.PreviewChar(); r == 'e' || r == 'E' {
			if n.matchExponent(src) {
				isFloat = true
			}
		}
	}
	tok := src.CreateToken(n)
	if isFloat {
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return src.CreateErrorToken("invalid number %q: %v", tok.Text, numError(err))
		}
		tok.Value = lr.FloatVal(f)
		return tok
	}
	i, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return src.CreateErrorToken("invalid number %q: %v", tok.Text, numError(err))
	}
	tok.Value = lr.IntVal(i)
	return tok
}

// matchRadix matches a number with a 0x or 0b prefix. The preview position is
// at the leading '0'.
func (n *Number) matchRadix(src lr.Source, start int, radix int) *lr.Token {
	src.NextPreviewChar() // 0
	if !isDigit(src.NextPreviewChar(), radix) {
		src.SetPreviewPosition(start + 1)
		tok := src.CreateToken(n)
		tok.Value = lr.IntVal(0)
		return tok
	}
	skipDigits(src, radix)
	tok := src.CreateToken(n)
	text := tok.Text[start-tok.Location.Position+2:]
	u, err := strconv.ParseUint(text, radix, 64)
	if err != nil {
		return src.CreateErrorToken("invalid number %q: %v", tok.Text, numError(err))
	}
	v := int64(u)
	if tok.Text[0] == '-' {
		v = -v
	}
	tok.Value = lr.IntVal(v)
	return tok
}

// matchExponent matches 'e' followed by an optional sign and digits. If no
// digits follow, the preview position is left before the 'e'.
func (n *Number) matchExponent(src lr.Source) bool {
	pos := src.PreviewPosition()
	r := src.NextPreviewChar()
	if r == '+' || r == '-' {
		r = src.NextPreviewChar()
	}
	if !isDigit(r, 10) {
		src.SetPreviewPosition(pos)
		return false
	}
	skipDigits(src, 10)
	return true
}

func numError(err error) error {
	var nerr *strconv.NumError
	if errors.As(err, &nerr) {
		return nerr.Err
	}
	return err
}

func isDigit(r rune, radix int) bool {
	switch radix {
	case 2:
		return r == '0' || r == '1'
	case 16:
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return r >= '0' && r <= '9'
}

func skipDigits(src lr.Source, radix int) {
	for isDigit(src.PreviewChar(), radix) {
		src.NextPreviewChar()
	}
}

// peek returns the character after the current preview character, without
// moving the preview position.
func peek(src lr.Source) rune {
	pos := src.PreviewPosition()
	r := src.NextPreviewChar()
	src.SetPreviewPosition(pos)
	return r
}
