package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/platinummonkey/dml/pkg/dml"
)

// TokenType represents the type of token
type TokenType string

const (
	TokenIdentifier  TokenType = "IDENTIFIER"
	TokenString      TokenType = "STRING"
	TokenNumber      TokenType = "NUMBER"
	TokenPunctuation TokenType = "PUNCTUATION"
	TokenComment     TokenType = "COMMENT"
	TokenEOF         TokenType = "EOF"
	TokenError       TokenType = "ERROR"
)

// Token represents a lexical token.
// For strings Text holds the unescaped contents without quotes.
type Token struct {
	Type TokenType
	Text string
	Pos  dml.Position
}

// Scanner represents a lexical scanner for schema source
type Scanner struct {
	r      *bufio.Reader
	ch     rune // current character, -1 at EOF
	offset int  // byte offset of ch
	next   int  // byte offset after ch
	line   int
	column int
	atEOL  bool
}

// NewScanner creates a new Scanner
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{
		r:    bufio.NewReader(r),
		line: 1,
	}
	s.advance()
	return s
}

// advance reads the next character into s.ch and tracks its position
func (s *Scanner) advance() {
	r, size, err := s.r.ReadRune()
	if err != nil {
		s.offset = s.next
		s.ch = -1
		return
	}

	if s.atEOL {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.atEOL = r == '\n'

	s.offset = s.next
	s.next += size
	s.ch = r
}

// peek returns the character after s.ch without consuming it
func (s *Scanner) peek() rune {
	r, _, err := s.r.ReadRune()
	if err != nil {
		return -1
	}
	_ = s.r.UnreadRune()
	return r
}

func (s *Scanner) pos() dml.Position {
	return dml.Position{Line: s.line, Column: s.column, Offset: s.offset}
}

func (s *Scanner) skipWhitespace() {
	for unicode.IsSpace(s.ch) {
		s.advance()
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isPunctuation(r rune) bool {
	switch r {
	case '@', '(', ')', '{', '}', '[', ']', ',', ':', '?':
		return true
	default:
		return false
	}
}

func (s *Scanner) scanIdentifier() string {
	var sb strings.Builder
	for isIdentPart(s.ch) {
		sb.WriteRune(s.ch)
		s.advance()
	}
	return sb.String()
}

// scanNumber scans an optionally signed integer or decimal
func (s *Scanner) scanNumber() string {
	var sb strings.Builder
	if s.ch == '-' {
		sb.WriteRune(s.ch)
		s.advance()
	}
	for unicode.IsDigit(s.ch) {
		sb.WriteRune(s.ch)
		s.advance()
	}
	if s.ch == '.' && unicode.IsDigit(s.peek()) {
		sb.WriteRune(s.ch)
		s.advance()
		for unicode.IsDigit(s.ch) {
			sb.WriteRune(s.ch)
			s.advance()
		}
	}
	return sb.String()
}

func (s *Scanner) scanString() (string, error) {
	quote := s.ch
	s.advance()

	var sb strings.Builder
	for s.ch != quote {
		switch s.ch {
		case -1, '\n':
			return "", fmt.Errorf("unterminated string")
		case '\\':
			s.advance()
			switch s.ch {
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case '\\', '"', '\'':
				sb.WriteRune(s.ch)
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", s.ch)
			}
		default:
			sb.WriteRune(s.ch)
		}
		s.advance()
	}
	s.advance()

	return sb.String(), nil
}

func (s *Scanner) scanComment() (string, error) {
	var sb strings.Builder
	sb.WriteRune(s.ch)
	s.advance()

	if s.ch == '/' {
		for s.ch != '\n' && s.ch != -1 {
			sb.WriteRune(s.ch)
			s.advance()
		}
		return sb.String(), nil
	}

	// block comment
	sb.WriteRune(s.ch)
	s.advance()
	for {
		switch s.ch {
		case -1:
			return "", fmt.Errorf("unterminated comment")
		case '*':
			sb.WriteRune(s.ch)
			s.advance()
			if s.ch == '/' {
				sb.WriteRune(s.ch)
				s.advance()
				return sb.String(), nil
			}
		default:
			sb.WriteRune(s.ch)
			s.advance()
		}
	}
}

// Scan returns the next token.
// Lexical errors are returned both as a TokenError token and as an error.
func (s *Scanner) Scan() (Token, error) {
	s.skipWhitespace()

	tok := Token{Pos: s.pos()}

	switch {
	case s.ch == -1:
		tok.Type = TokenEOF
	case isIdentStart(s.ch):
		tok.Type = TokenIdentifier
		tok.Text = s.scanIdentifier()
	case unicode.IsDigit(s.ch), s.ch == '-' && unicode.IsDigit(s.peek()):
		tok.Type = TokenNumber
		tok.Text = s.scanNumber()
	case s.ch == '"' || s.ch == '\'':
		text, err := s.scanString()
		if err != nil {
			tok.Type = TokenError
			tok.Text = err.Error()
			return tok, err
		}
		tok.Type = TokenString
		tok.Text = text
	case s.ch == '/' && (s.peek() == '/' || s.peek() == '*'):
		text, err := s.scanComment()
		if err != nil {
			tok.Type = TokenError
			tok.Text = err.Error()
			return tok, err
		}
		tok.Type = TokenComment
		tok.Text = text
	case isPunctuation(s.ch):
		tok.Type = TokenPunctuation
		tok.Text = string(s.ch)
		s.advance()
	default:
		ch := s.ch
		s.advance()
		tok.Type = TokenError
		tok.Text = fmt.Sprintf("unexpected character %q", ch)
		return tok, fmt.Errorf("unexpected character %q", ch)
	}

	return tok, nil
}
