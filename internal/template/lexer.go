package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText   TokenType = iota // Literal text
	TokenMarker                  // [[ ... ]] with its optional trailing line break
	TokenEOF                     // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenMarker:
		return "MARKER"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

const (
	openDelim  = "[["
	closeDelim = "]]"
)

// Token represents a lexical token.
type Token struct {
	Type TokenType
	// Value is the marker content with surrounding whitespace trimmed.
	// For text tokens it equals Raw.
	Value string
	// Raw is the exact source span, including delimiters and a consumed
	// trailing line break.
	Raw string
	Pos Position
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
// It never fails: an unterminated "[[" is literal text.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) nextToken() Token {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}
	}
	if l.markerAhead() {
		return l.scanMarker()
	}
	return l.scanText()
}

// scanText scans literal text up to the next marker that can be closed.
func (l *Lexer) scanText() Token {
	l.markStart()
	start := l.pos

	// The first rune is plain text or a "[[" that cannot open a marker.
	l.advance()
	for l.pos < len(l.input) {
		if l.markerAhead() {
			break
		}
		l.advance()
	}

	text := l.input[start:l.pos]
	return Token{Type: TokenText, Value: text, Raw: text, Pos: l.startPosition()}
}

// markerAhead reports whether a marker starts at the current position:
// "[[" followed by non-blank content and a closing "]]".
func (l *Lexer) markerAhead() bool {
	if !l.matchString(openDelim) {
		return false
	}
	end := l.closeIndex()
	return end >= 0 && strings.TrimSpace(l.input[l.pos+len(openDelim):end]) != ""
}

// scanMarker scans a [[ ... ]] marker. The marker ends at the first "]]"
// after the opening delimiter.
func (l *Lexer) scanMarker() Token {
	end := l.closeIndex()
	content := strings.TrimSpace(l.input[l.pos+len(openDelim) : end])

	l.markStart()
	start := l.pos
	for l.pos < end+len(closeDelim) {
		l.advance()
	}

	// An optional single line break after the marker belongs to it.
	switch {
	case l.matchString("\r\n"):
		l.advance()
		l.advance()
	case l.matchString("\n"):
		l.advance()
	}

	return Token{
		Type:  TokenMarker,
		Value: content,
		Raw:   l.input[start:l.pos],
		Pos:   l.startPosition(),
	}
}

// closeIndex returns the absolute index of the "]]" closing a marker that
// opens at the current position, or -1.
func (l *Lexer) closeIndex() int {
	idx := strings.Index(l.input[l.pos+len(openDelim):], closeDelim)
	if idx < 0 {
		return -1
	}
	return l.pos + len(openDelim) + idx
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// matchString checks if the input at current position matches s.
func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// markStart records the start position for the current token.
func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
