// Package lexer turns Java source bytes into a stream of token.Token
// values. It never aborts on malformed input: illegal characters,
// unterminated literals, and bad escapes are reported as token.Bad tokens
// so that callers can recover and keep scanning.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/javafmt/token"
)

// Lexer scans a byte buffer one rune at a time, tracking its own offset.
// It holds no reference to source.Text: the two packages serve different
// needs (forward-pass scanning here, random-access line lookup there).
type Lexer struct {
	src []byte
	pos int // current offset into src
}

// New returns a Lexer positioned at the start of src.
func New(src []byte) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteN(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	r, size := utf8.DecodeRune(l.src[l.pos:])
	return r, size
}

// Next scans and returns the next token, advancing the cursor. It returns
// a token.EOF token (zero length) once the buffer is exhausted, and never
// returns an error: malformed input surfaces as token.Bad.
func (l *Lexer) Next() token.Token {
	if l.eof() {
		return token.Token{Kind: token.EOF, Start: l.pos}
	}

	start := l.pos
	b := l.peekByte()

	switch {
	case b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f':
		return l.scanWhitespace(start)
	case b == '/' && l.peekByteN(1) == '/':
		return l.scanLineComment(start)
	case b == '/' && l.peekByteN(1) == '*':
		return l.scanBlockComment(start)
	case b == '"' && l.peekByteN(1) == '"' && l.peekByteN(2) == '"':
		return l.scanTextBlock(start)
	case b == '"':
		return l.scanString(start)
	case b == '\'':
		return l.scanChar(start)
	case isDigit(b), b == '.' && isDigit(l.peekByteN(1)):
		return l.scanNumber(start)
	case isIdentStart(b):
		return l.scanIdentOrKeyword(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) emit(kind token.Kind, start int) token.Token {
	return token.Token{Kind: kind, Start: start, Length: l.pos - start, Text: l.src[start:l.pos]}
}

func (l *Lexer) scanWhitespace(start int) token.Token {
	for !l.eof() {
		switch l.peekByte() {
		case ' ', '\t', '\r', '\n', '\f':
			l.pos++
		default:
			return l.emit(token.Whitespace, start)
		}
	}
	return l.emit(token.Whitespace, start)
}

func (l *Lexer) scanLineComment(start int) token.Token {
	l.pos += 2
	for !l.eof() && l.peekByte() != '\n' {
		l.pos++
	}
	return l.emit(token.LineComment, start)
}

func (l *Lexer) scanBlockComment(start int) token.Token {
	kind := token.BlockComment
	l.pos += 2
	if l.peekByte() == '*' && l.peekByteN(1) != '/' {
		kind = token.Javadoc
	}
	for !l.eof() {
		if l.peekByte() == '*' && l.peekByteN(1) == '/' {
			l.pos += 2
			return l.emit(kind, start)
		}
		l.pos++
	}
	return l.emit(token.Bad, start) // unterminated block comment
}

func (l *Lexer) scanTextBlock(start int) token.Token {
	l.pos += 3
	// The opening delimiter must be followed only by whitespace through
	// end of line; we don't validate that here, only scan to the closer.
	for !l.eof() {
		if l.peekByte() == '"' && l.peekByteN(1) == '"' && l.peekByteN(2) == '"' {
			l.pos += 3
			return l.emit(token.TextBlock, start)
		}
		if l.peekByte() == '\\' {
			l.pos++
			if !l.eof() {
				l.pos++
			}
			continue
		}
		l.pos++
	}
	return l.emit(token.Bad, start) // unterminated text block
}

func (l *Lexer) scanString(start int) token.Token {
	l.pos++ // opening quote
	for {
		if l.eof() {
			return l.emit(token.Bad, start) // unterminated string
		}
		b := l.peekByte()
		if b == '"' {
			l.pos++
			return l.emit(token.StringLiteral, start)
		}
		if b == '\n' {
			return l.emit(token.Bad, start) // newline in single-line string
		}
		if b == '\\' {
			l.pos++
			if l.eof() {
				return l.emit(token.Bad, start)
			}
			if !isValidEscape(l.peekByte()) {
				// Keep scanning so the rest of the file still lexes, but
				// the token itself is malformed.
				l.pos++
				return l.drainBadString(start)
			}
			l.pos++
			continue
		}
		l.pos++
	}
}

func (l *Lexer) drainBadString(start int) token.Token {
	for !l.eof() && l.peekByte() != '"' && l.peekByte() != '\n' {
		l.pos++
	}
	if !l.eof() && l.peekByte() == '"' {
		l.pos++
	}
	return l.emit(token.Bad, start)
}

func isValidEscape(b byte) bool {
	switch b {
	case 'b', 't', 'n', 'f', 'r', '"', '\'', '\\', 's', '\n', '0', '1', '2', '3', '4', '5', '6', '7', 'u':
		return true
	}
	return false
}

func (l *Lexer) scanChar(start int) token.Token {
	l.pos++ // opening quote
	if l.eof() {
		return l.emit(token.Bad, start)
	}
	if l.peekByte() == '\\' {
		l.pos++
		if l.eof() || !isValidEscape(l.peekByte()) {
			return l.drainBadChar(start)
		}
		l.pos++
	} else if l.peekByte() == '\'' || l.peekByte() == '\n' {
		return l.drainBadChar(start)
	} else {
		_, size := l.peekRune()
		l.pos += size
	}
	if l.eof() || l.peekByte() != '\'' {
		return l.drainBadChar(start)
	}
	l.pos++
	return l.emit(token.CharLiteral, start)
}

func (l *Lexer) drainBadChar(start int) token.Token {
	for !l.eof() && l.peekByte() != '\'' && l.peekByte() != '\n' {
		l.pos++
	}
	if !l.eof() && l.peekByte() == '\'' {
		l.pos++
	}
	return l.emit(token.Bad, start)
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool   { return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F') }
func isIdentStart(b byte) bool { return b == '_' || b == '$' || unicode.IsLetter(rune(b)) || b >= 0x80 }
func isIdentPart(b byte) bool  { return isIdentStart(b) || isDigit(b) }

func (l *Lexer) scanNumber(start int) token.Token {
	kind := token.IntLiteral
	if l.peekByte() == '0' && (l.peekByteN(1) == 'x' || l.peekByteN(1) == 'X') {
		l.pos += 2
		for !l.eof() && (isHexDigit(l.peekByte()) || l.peekByte() == '_') {
			l.pos++
		}
	} else if l.peekByte() == '0' && (l.peekByteN(1) == 'b' || l.peekByteN(1) == 'B') {
		l.pos += 2
		for !l.eof() && (l.peekByte() == '0' || l.peekByte() == '1' || l.peekByte() == '_') {
			l.pos++
		}
	} else {
		for !l.eof() && (isDigit(l.peekByte()) || l.peekByte() == '_') {
			l.pos++
		}
		if l.peekByte() == '.' && isDigit(l.peekByteN(1)) || l.peekByte() == '.' && !isIdentStart(l.peekByteN(1)) {
			kind = token.DoubleLiteral
			l.pos++
			for !l.eof() && (isDigit(l.peekByte()) || l.peekByte() == '_') {
				l.pos++
			}
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			kind = token.DoubleLiteral
			l.pos++
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.pos++
			}
			for !l.eof() && isDigit(l.peekByte()) {
				l.pos++
			}
		}
	}
	switch l.peekByte() {
	case 'l', 'L':
		kind = token.LongLiteral
		l.pos++
	case 'f', 'F':
		kind = token.FloatLiteral
		l.pos++
	case 'd', 'D':
		kind = token.DoubleLiteral
		l.pos++
	}
	return l.emit(kind, start)
}

func (l *Lexer) scanIdentOrKeyword(start int) token.Token {
	for !l.eof() {
		r, size := l.peekRune()
		if size == 1 && isIdentPart(l.src[l.pos]) {
			l.pos++
			continue
		}
		if size > 1 && unicode.IsLetter(r) {
			l.pos += size
			continue
		}
		break
	}
	if l.pos == start {
		// A non-ASCII rune that is not a letter: illegal character.
		_, size := l.peekRune()
		l.pos += size
		return l.emit(token.Bad, start)
	}
	tok := l.emit(token.Ident, start)
	tok.Kind = token.Lookup(tok.Literal())
	return tok
}

// operators lists multi-byte operators longest-match-first; single-byte
// fallbacks are handled after this table misses.
var operators = []struct {
	text string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},
	{"...", token.Ellipsis},
	{">>>", token.UShr},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"==", token.EQ},
	{"!=", token.NE},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"++", token.Increment},
	{"--", token.Decrement},
	{"->", token.Arrow},
	{"::", token.ColonColon},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AndAssign},
	{"|=", token.OrAssign},
	{"^=", token.XorAssign},
}

var singleByteOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'@': token.At,
	'=': token.Assign,
	'<': token.LT,
	'>': token.GT,
	'!': token.Not,
	'&': token.BitAnd,
	'|': token.BitOr,
	'^': token.BitXor,
	'~': token.BitNot,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'?': token.Question,
	':': token.Colon,
}

func (l *Lexer) scanOperator(start int) token.Token {
	remaining := l.src[l.pos:]
	for _, op := range operators {
		if len(remaining) >= len(op.text) && string(remaining[:len(op.text)]) == op.text {
			l.pos += len(op.text)
			return l.emit(op.kind, start)
		}
	}
	if kind, ok := singleByteOps[l.peekByte()]; ok {
		l.pos++
		return l.emit(kind, start)
	}
	// Illegal character: consume one rune so scanning can make progress.
	_, size := l.peekRune()
	if size == 0 {
		size = 1
	}
	l.pos += size
	return l.emit(token.Bad, start)
}

// Tokenize scans src to completion and returns every token, including
// trivia and a final EOF token. Callers that only need significant
// tokens should filter with Kind.IsTrivia.
func Tokenize(src []byte) []token.Token {
	l := New(src)
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}
