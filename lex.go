package calculator

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is one lexical unit of an expression. Tokens are opaque to the
// evaluator and compared only by equality.
type Token string

// End is the end-of-input sentinel. It is also the stop token for a
// top-level evaluation.
const End Token = ""

// TokenSource yields tokens on demand. Next returns End at exhaustion and
// keeps returning it thereafter. Back restores the most recently read token
// so that the next call to Next returns it again; the pushback depth is
// exactly one, and pushing twice without an intervening Next panics.
type TokenSource interface {
	Next() (Token, error)
	Back(Token)
}

// Operators contains the runes which are complete tokens by themselves.
const Operators = "+-*/^%"

// Compares contains the runes which chain into comparison and assignment
// tokens, e.g. <= and ==.
const Compares = "=<>!"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

const breakers = Operators + Compares + OpenBrackets + CloseBrackets

// Lexer splits text into tokens. It implements TokenSource.
type Lexer struct {
	src    io.RuneScanner
	buf    strings.Builder
	rune   int
	p      Token
	pushed bool
	eof    bool
}

// Lex creates a Lexer reading src.
func Lex(src io.RuneScanner) *Lexer {
	return &Lexer{
		src:  src,
		rune: 1,
	}
}

// Back unreads a token so that it is the next token returned from Next.
// Panics if there is already a pushed token.
func (l *Lexer) Back(tok Token) {
	if l.pushed {
		panic("calculator: double pushback")
	}
	l.p = tok
	l.pushed = true
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *Lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *Lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// Next scans the next token from the input. At the end of the input the
// result is End with a nil error, on this and every later call.
func (l *Lexer) Next() (Token, error) {
	if l.pushed {
		tok := l.p
		l.p = ""
		l.pushed = false
		return tok, nil
	}
	if l.eof {
		return End, nil
	}
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return End, nil
			}
			return End, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return End, err
			}
			return Token(l.buf.String()), nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return End, err
			}
			return Token(l.buf.String()), nil
		case strings.ContainsRune(Compares, r):
			l.buf.WriteRune(r)
			if err := l.scanRun(Compares); err != nil {
				return End, err
			}
			return Token(l.buf.String()), nil
		default:
			if strings.ContainsRune(Operators+OpenBrackets+CloseBrackets, r) {
				return Token(r), nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return End, l.error("")
		}
	}
}

func (l *Lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(breakers, r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if (!dig && !ed) || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *Lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanRun consumes the longest run of runes from set, so that <= and == come
// out as single tokens.
func (l *Lexer) scanRun(set string) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !strings.ContainsRune(set, r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *Lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}
