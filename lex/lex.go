package lex

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Lexer reads tokens on demand from a source reader. It keeps no
// goroutine, so an abandoned lexer is simply garbage collected.
type Lexer struct {
	brdr      *bufio.Reader
	pos       FilePos
	lastPos   FilePos
	markedPos FilePos
	// Set to true if we have hit the end of file.
	eof bool
	// Set once the EOF token has been handed out.
	done  bool
	tok   Token
	ready bool

	err error
}

type breakout struct{}

// Lex returns a lexer over the contents of the reader.
// fname is used for error messages when showing the source location.
func Lex(fname string, r io.Reader) *Lexer {
	lx := new(Lexer)
	lx.pos.File = fname
	lx.pos.Line = 1
	lx.pos.Col = 1
	lx.markedPos = lx.pos
	lx.lastPos = lx.pos
	lx.brdr = bufio.NewReader(r)
	return lx
}

// Tokenize lexes the whole of r. The returned slice always ends with an
// EOF token unless an error is returned.
func Tokenize(fname string, r io.Reader) ([]Token, error) {
	lx := Lex(fname, r)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// TokenizeString is Tokenize over an in memory source.
func TokenizeString(fname, src string) ([]Token, error) {
	return Tokenize(fname, strings.NewReader(src))
}

// Next returns the next token. Once the input is exhausted every call
// returns an EOF token. Errors are sticky.
func (lx *Lexer) Next() (tok Token, err error) {
	if lx.err != nil {
		return Token{Kind: ERROR, Val: lx.err.Error(), Pos: lx.pos}, lx.err
	}
	if lx.done {
		return Token{Kind: EOF, Pos: lx.pos}, nil
	}
	defer func() {
		if e := recover(); e != nil {
			_ = e.(*breakout) // Will re-panic if not a breakout.
			tok = Token{Kind: ERROR, Val: lx.err.Error(), Pos: lx.pos}
			err = lx.err
		}
	}()
	lx.ready = false
	for !lx.ready {
		lx.lexOne()
	}
	return lx.tok, nil
}

func (lx *Lexer) markPos() {
	lx.markedPos = lx.pos
}

func (lx *Lexer) sendTok(kind TokenKind, val string) {
	lx.tok = Token{
		Kind: kind,
		Val:  val,
		Pos:  lx.markedPos,
	}
	lx.ready = true
}

func (lx *Lexer) unreadRune() {
	lx.pos = lx.lastPos
	if lx.eof {
		return
	}
	lx.brdr.UnreadRune()
}

func (lx *Lexer) readRune() (rune, bool) {
	r, _, err := lx.brdr.ReadRune()
	lx.lastPos = lx.pos
	if err != nil {
		if err == io.EOF {
			lx.eof = true
			return 0, true
		}
		lx.Error(err.Error())
	}
	switch r {
	case '\n':
		lx.pos.Line += 1
		lx.pos.Col = 1
	case '\t':
		lx.pos.Col += 4
	default:
		lx.pos.Col += 1
	}
	return r, false
}

func (lx *Lexer) Error(e string) {
	lx.errorAt(e, lx.pos)
}

func (lx *Lexer) errorAt(e string, pos FilePos) {
	lx.err = ErrWithLoc(errors.New(e), pos)
	panic(&breakout{})
}

// follow is a possible second character of an operator.
type follow struct {
	r    rune
	kind TokenKind
	val  string
}

// lexOp sends the longest operator starting with the rune just read.
func (lx *Lexer) lexOp(kind TokenKind, val string, follows ...follow) {
	second, eof := lx.readRune()
	if !eof {
		for _, f := range follows {
			if second == f.r {
				lx.sendTok(f.kind, f.val)
				return
			}
		}
	}
	lx.unreadRune()
	lx.sendTok(kind, val)
}

// lexShift handles '<' and '>' which have three character forms.
func (lx *Lexer) lexShift(first rune, single, cmp, shift, shiftAssign TokenKind) {
	second, eof := lx.readRune()
	switch {
	case !eof && second == first:
		third, eof := lx.readRune()
		if !eof && third == '=' {
			lx.sendTok(shiftAssign, string(first)+string(first)+"=")
			return
		}
		lx.unreadRune()
		lx.sendTok(shift, string(first)+string(first))
	case !eof && second == '=':
		lx.sendTok(cmp, string(first)+"=")
	default:
		lx.unreadRune()
		lx.sendTok(single, string(first))
	}
}

func (lx *Lexer) lexOne() {
	lx.markPos()
	first, eof := lx.readRune()
	if eof {
		lx.sendTok(EOF, "")
		lx.done = true
		return
	}
	switch {
	case isValidIdentStart(first):
		lx.unreadRune()
		lx.readIdentOrKeyword()
		return
	case isNumeric(first):
		lx.unreadRune()
		lx.readConstantIntOrFloat(false)
		return
	case isWhiteSpace(first):
		lx.unreadRune()
		lx.skipWhiteSpace()
		return
	}
	switch first {
	case '!':
		lx.lexOp(NOT, "!", follow{'=', NEQ, "!="})
	case '?':
		lx.sendTok(QUESTION, "?")
	case ':':
		lx.sendTok(COLON, ":")
	case '\'':
		lx.unreadRune()
		lx.readQuoted('\'', CHAR_CONSTANT, "char literal")
	case '"':
		lx.unreadRune()
		lx.readQuoted('"', STRING, "string literal")
	case '(':
		lx.sendTok(LPAREN, "(")
	case ')':
		lx.sendTok(RPAREN, ")")
	case '{':
		lx.sendTok(LBRACE, "{")
	case '}':
		lx.sendTok(RBRACE, "}")
	case '[':
		lx.sendTok(LBRACK, "[")
	case ']':
		lx.sendTok(RBRACK, "]")
	case '<':
		lx.lexShift('<', LSS, LEQ, SHL, SHL_ASSIGN)
	case '>':
		lx.lexShift('>', GTR, GEQ, SHR, SHR_ASSIGN)
	case '+':
		lx.lexOp(ADD, "+", follow{'+', INC, "++"}, follow{'=', ADD_ASSIGN, "+="})
	case '-':
		lx.lexOp(SUB, "-", follow{'>', ARROW, "->"}, follow{'-', DEC, "--"}, follow{'=', SUB_ASSIGN, "-="})
	case '*':
		lx.lexOp(MUL, "*", follow{'=', MUL_ASSIGN, "*="})
	case '%':
		lx.lexOp(REM, "%", follow{'=', REM_ASSIGN, "%="})
	case '^':
		lx.lexOp(XOR, "^", follow{'=', XOR_ASSIGN, "^="})
	case '|':
		lx.lexOp(OR, "|", follow{'|', LOR, "||"}, follow{'=', OR_ASSIGN, "|="})
	case '&':
		lx.lexOp(AND, "&", follow{'&', LAND, "&&"}, follow{'=', AND_ASSIGN, "&="})
	case '=':
		lx.lexOp(ASSIGN, "=", follow{'=', EQL, "=="})
	case '.':
		second, _ := lx.readRune()
		lx.unreadRune()
		if isNumeric(second) {
			lx.readConstantIntOrFloat(true)
		} else {
			lx.sendTok(PERIOD, ".")
		}
	case '~':
		lx.sendTok(BNOT, "~")
	case ',':
		lx.sendTok(COMMA, ",")
	case ';':
		lx.sendTok(SEMICOLON, ";")
	case '\\':
		r, _ := lx.readRune()
		if r == '\n' {
			break
		}
		lx.Error("misplaced '\\'.")
	case '/':
		second, _ := lx.readRune()
		switch second {
		case '*':
			lx.skipBlockComment()
		case '/':
			for {
				c, eof := lx.readRune()
				if c == '\n' || eof {
					break
				}
			}
		case '=':
			lx.sendTok(QUO_ASSIGN, "/=")
		default:
			lx.unreadRune()
			lx.sendTok(QUO, "/")
		}
	default:
		lx.errorAt(fmt.Sprintf("unexpected character %q", first), lx.markedPos)
	}
}

func (lx *Lexer) skipBlockComment() {
	for {
		c, eof := lx.readRune()
		if eof {
			lx.Error("unclosed comment.")
		}
		if c == '*' {
			closeBar, eof := lx.readRune()
			if eof {
				lx.Error("unclosed comment.")
			}
			if closeBar == '/' {
				return
			}
			// Unread so a following '*' can still close the comment.
			lx.unreadRune()
		}
	}
}

func (lx *Lexer) readIdentOrKeyword() {
	var buff bytes.Buffer
	lx.markPos()
	first, _ := lx.readRune()
	if !isValidIdentStart(first) {
		panic("internal error")
	}
	buff.WriteRune(first)
	for {
		b, _ := lx.readRune()
		if isValidIdentTail(b) {
			buff.WriteRune(b)
		} else {
			lx.unreadRune()
			str := buff.String()
			tokType, ok := keywordLUT[str]
			if !ok {
				tokType = IDENT
			}
			lx.sendTok(tokType, str)
			break
		}
	}
}

func (lx *Lexer) skipWhiteSpace() {
	for {
		r, _ := lx.readRune()
		if !isWhiteSpace(r) {
			lx.unreadRune()
			break
		}
	}
}

// Due to the 1 character lookahead we need this bool
func (lx *Lexer) readConstantIntOrFloat(startedWithPeriod bool) {
	var buff bytes.Buffer
	const (
		START = iota
		SECOND
		HEX
		DEC
		FLOAT_START
		FLOAT_AFTER_E
		FLOAT_AFTER_E_SIGN
		INT_TAIL
		FLOAT_TAIL
		END
	)
	var tokType TokenKind
	var state int
	if startedWithPeriod {
		state = FLOAT_START
		tokType = FLOAT_CONSTANT
		buff.WriteRune('.')
	} else {
		state = START
		tokType = INT_CONSTANT
	}
	for state != END {
		r, eof := lx.readRune()
		if eof {
			if state == FLOAT_AFTER_E {
				lx.Error("invalid float constant - expected number or sign after e")
			}
			break
		}
		switch state {
		case START:
			if !isNumeric(r) {
				lx.Error("internal error")
			}
			buff.WriteRune(r)
			state = SECOND
		case SECOND:
			switch {
			case r == 'x' || r == 'X':
				state = HEX
				buff.WriteRune(r)
			case isNumeric(r):
				state = DEC
				buff.WriteRune(r)
			default:
				lx.decTail(&buff, r, &state, &tokType, INT_TAIL, FLOAT_AFTER_E, FLOAT_START, END)
			}
		case DEC:
			if isNumeric(r) {
				buff.WriteRune(r)
			} else {
				lx.decTail(&buff, r, &state, &tokType, INT_TAIL, FLOAT_AFTER_E, FLOAT_START, END)
			}
		case HEX:
			if !isHexDigit(r) {
				switch r {
				case 'l', 'L', 'u', 'U':
					state = INT_TAIL
					buff.WriteRune(r)
				default:
					if isValidIdentStart(r) {
						lx.Error("invalid constant int")
					}
					state = END
				}
			} else {
				buff.WriteRune(r)
			}
		case INT_TAIL:
			switch r {
			case 'l', 'L', 'u', 'U':
				buff.WriteRune(r)
			default:
				if isValidIdentStart(r) || isNumeric(r) {
					lx.Error("invalid constant int")
				}
				state = END
			}
		case FLOAT_START:
			if !isNumeric(r) {
				switch r {
				case 'e', 'E':
					state = FLOAT_AFTER_E
					buff.WriteRune(r)
				case 'f', 'F', 'l', 'L':
					state = FLOAT_TAIL
					buff.WriteRune(r)
				default:
					if isValidIdentStart(r) {
						lx.Error("invalid floating point constant.")
					}
					state = END
				}
			} else {
				buff.WriteRune(r)
			}
		case FLOAT_AFTER_E:
			if r == '-' || r == '+' || isNumeric(r) {
				state = FLOAT_AFTER_E_SIGN
				buff.WriteRune(r)
			} else {
				lx.Error("invalid float constant - expected number or sign after e")
			}
		case FLOAT_AFTER_E_SIGN:
			if isNumeric(r) {
				buff.WriteRune(r)
			} else {
				switch r {
				case 'l', 'L', 'f', 'F':
					buff.WriteRune(r)
					state = FLOAT_TAIL
				default:
					if isValidIdentStart(r) {
						lx.Error("invalid float constant")
					}
					state = END
				}
			}
		case FLOAT_TAIL:
			switch r {
			case 'l', 'L', 'f', 'F':
				buff.WriteRune(r)
			default:
				if isValidIdentStart(r) {
					lx.Error("invalid float constant")
				}
				state = END
			}
		default:
			lx.Error("internal error.")
		}
	}
	lx.unreadRune()
	lx.sendTok(tokType, buff.String())
}

// decTail decides what follows the digits of a decimal constant.
func (lx *Lexer) decTail(buff *bytes.Buffer, r rune, state *int, tokType *TokenKind, intTail, afterE, floatStart, end int) {
	switch r {
	case 'l', 'L', 'u', 'U':
		*state = intTail
		buff.WriteRune(r)
	case 'e', 'E':
		*state = afterE
		*tokType = FLOAT_CONSTANT
		buff.WriteRune(r)
	case '.':
		*state = floatStart
		*tokType = FLOAT_CONSTANT
		buff.WriteRune(r)
	default:
		if isValidIdentStart(r) {
			lx.Error("invalid constant int")
		}
		*state = end
	}
}

// readQuoted reads a string or char literal. The token value keeps the
// quotes and escapes exactly as written, minus escaped newlines.
func (lx *Lexer) readQuoted(quote rune, kind TokenKind, what string) {
	const (
		START = iota
		MID
		ESCAPED
		END
	)
	var buff bytes.Buffer
	var state int
	lx.markPos()
	for state != END {
		r, eof := lx.readRune()
		if eof {
			lx.Error("eof in " + what)
		}
		switch state {
		case START:
			if r != quote {
				lx.Error("internal error")
			}
			buff.WriteRune(r)
			state = MID
		case MID:
			switch r {
			case '\\':
				state = ESCAPED
			case '\n':
				lx.Error("newline in " + what)
			case quote:
				buff.WriteRune(r)
				state = END
			default:
				buff.WriteRune(r)
			}
		case ESCAPED:
			switch r {
			case '\r':
				// empty
			case '\n':
				state = MID
			default:
				buff.WriteRune('\\')
				buff.WriteRune(r)
				state = MID
			}
		}
	}
	lx.sendTok(kind, buff.String())
}

func isValidIdentTail(b rune) bool {
	return isValidIdentStart(b) || isNumeric(b) || b == '$'
}

func isValidIdentStart(b rune) bool {
	return b == '_' || isAlpha(b)
}

func isAlpha(b rune) bool {
	if b >= 'a' && b <= 'z' {
		return true
	}
	if b >= 'A' && b <= 'Z' {
		return true
	}
	return false
}

func isWhiteSpace(b rune) bool {
	return b == ' ' || b == '\r' || b == '\n' || b == '\t' || b == '\f'
}

func isNumeric(b rune) bool {
	if b >= '0' && b <= '9' {
		return true
	}
	return false
}

func isHexDigit(b rune) bool {
	return isNumeric(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
