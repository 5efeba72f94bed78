package lex

import (
	"fmt"
)

// The list of tokens.
const (

	// Single char tokens are themselves.
	ADD       = '+'
	SUB       = '-'
	MUL       = '*'
	QUO       = '/'
	REM       = '%'
	AND       = '&'
	OR        = '|'
	XOR       = '^'
	QUESTION  = '?'
	LSS       = '<'
	GTR       = '>'
	ASSIGN    = '='
	NOT       = '!'
	BNOT      = '~'
	LPAREN    = '('
	LBRACK    = '['
	LBRACE    = '{'
	COMMA     = ','
	PERIOD    = '.'
	RPAREN    = ')'
	RBRACK    = ']'
	RBRACE    = '}'
	SEMICOLON = ';'
	COLON     = ':'

	ERROR = 10000 + iota
	EOF
	// Identifiers and basic type literals
	// (these tokens stand for classes of literals)
	IDENT          // main
	INT_CONSTANT   // 12345
	FLOAT_CONSTANT // 123.45
	CHAR_CONSTANT  // 'a'
	STRING         // "abc"

	SHL        // <<
	SHR        // >>
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	QUO_ASSIGN // /=
	REM_ASSIGN // %=
	AND_ASSIGN // &=
	OR_ASSIGN  // |=
	XOR_ASSIGN // ^=
	SHL_ASSIGN // <<=
	SHR_ASSIGN // >>=
	LAND       // &&
	LOR        // ||
	ARROW      // ->
	INC        // ++
	DEC        // --
	EQL        // ==
	NEQ        // !=
	LEQ        // <=
	GEQ        // >=

	// Keywords
	CONST
	EXTERN
	STATIC
	VOID
	BOOL
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
	ENUM
	STRUCT
	UNION
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	SIZEOF
)

var tokenKindToStr = [...]string{
	EOF:            "EOF",
	ERROR:          "error",
	CHAR_CONSTANT:  "charconst",
	INT_CONSTANT:   "intconst",
	FLOAT_CONSTANT: "floatconst",
	IDENT:          "ident",
	STRING:         "string",
	ADD:            "'+'",
	SUB:            "'-'",
	MUL:            "'*'",
	QUO:            "'/'",
	REM:            "'%'",
	AND:            "'&'",
	OR:             "'|'",
	XOR:            "'^'",
	SHL:            "'<<'",
	SHR:            "'>>'",
	ADD_ASSIGN:     "'+='",
	SUB_ASSIGN:     "'-='",
	MUL_ASSIGN:     "'*='",
	QUO_ASSIGN:     "'/='",
	REM_ASSIGN:     "'%='",
	AND_ASSIGN:     "'&='",
	OR_ASSIGN:      "'|='",
	XOR_ASSIGN:     "'^='",
	SHL_ASSIGN:     "'<<='",
	SHR_ASSIGN:     "'>>='",
	LAND:           "'&&'",
	LOR:            "'||'",
	ARROW:          "'->'",
	INC:            "'++'",
	DEC:            "'--'",
	EQL:            "'=='",
	LSS:            "'<'",
	GTR:            "'>'",
	ASSIGN:         "'='",
	NOT:            "'!'",
	BNOT:           "'~'",
	NEQ:            "'!='",
	LEQ:            "'<='",
	GEQ:            "'>='",
	LPAREN:         "'('",
	LBRACK:         "'['",
	LBRACE:         "'{'",
	COMMA:          "','",
	PERIOD:         "'.'",
	RPAREN:         "')'",
	RBRACK:         "']'",
	RBRACE:         "'}'",
	SEMICOLON:      "';'",
	COLON:          "':'",
	QUESTION:       "'?'",
	CONST:          "const",
	EXTERN:         "extern",
	STATIC:         "static",
	VOID:           "void",
	BOOL:           "bool",
	U8:             "u8",
	U16:            "u16",
	U32:            "u32",
	U64:            "u64",
	I8:             "i8",
	I16:            "i16",
	I32:            "i32",
	I64:            "i64",
	F32:            "f32",
	F64:            "f64",
	ENUM:           "enum",
	STRUCT:         "struct",
	UNION:          "union",
	IF:             "if",
	ELSE:           "else",
	WHILE:          "while",
	FOR:            "for",
	RETURN:         "return",
	BREAK:          "break",
	CONTINUE:       "continue",
	SIZEOF:         "sizeof",
}

var keywordLUT = map[string]TokenKind{
	"const":    CONST,
	"extern":   EXTERN,
	"static":   STATIC,
	"void":     VOID,
	"bool":     BOOL,
	"u8":       U8,
	"u16":      U16,
	"u32":      U32,
	"u64":      U64,
	"i8":       I8,
	"i16":      I16,
	"i32":      I32,
	"i64":      I64,
	"f32":      F32,
	"f64":      F64,
	"enum":     ENUM,
	"struct":   STRUCT,
	"union":    UNION,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"sizeof":   SIZEOF,
}

type TokenKind uint32

func (tk TokenKind) String() string {
	if uint32(tk) >= uint32(len(tokenKindToStr)) {
		return "Unknown"
	}
	ret := tokenKindToStr[tk]
	if ret == "" {
		return "Unknown"
	}
	return ret
}

// IsPrimitive reports whether tk names a built-in type.
func (tk TokenKind) IsPrimitive() bool {
	switch tk {
	case VOID, BOOL, U8, U16, U32, U64, I8, I16, I32, I64, F32, F64:
		return true
	}
	return false
}

// IsLiteral reports whether tk is a token class that can stand alone as
// a primary expression.
func (tk TokenKind) IsLiteral() bool {
	switch tk {
	case INT_CONSTANT, FLOAT_CONSTANT, CHAR_CONSTANT, STRING, IDENT:
		return true
	}
	return false
}

type FilePos struct {
	File string
	Line int
	Col  int
}

func (pos FilePos) String() string {
	if pos.File == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
	}
	return fmt.Sprintf("%s:%d:%d", pos.File, pos.Line, pos.Col)
}

// Token is a kind tagged span of source text. Val holds the exact
// characters the token was read from, quotes and suffixes included.
type Token struct {
	Kind TokenKind
	Val  string
	Pos  FilePos
}

func (t Token) String() string {
	if t.Kind == EOF {
		return fmt.Sprintf("end of input at %s", t.Pos)
	}
	return fmt.Sprintf("%s at %s", t.Val, t.Pos)
}
