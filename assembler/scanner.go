package assembler

import (
	"log"
)

// scanner splits assembly text into whitespace separated tokens,
// skipping '#' delimited comments.
type scanner struct {
	src    []byte
	pos    int
	lineno int
	warned bool // Unterminated comment already reported.
}

type scanMark struct {
	pos    int
	lineno int
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src, lineno: 1}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (s *scanner) mark() scanMark {
	return scanMark{pos: s.pos, lineno: s.lineno}
}

func (s *scanner) reset(m scanMark) {
	s.pos = m.pos
	s.lineno = m.lineno
}

// advance moves past one byte, counting lines.
func (s *scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.lineno++
	}
	s.pos++
}

// skip moves past whitespace and comments.
func (s *scanner) skip() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isSpace(c):
			s.advance()
		case c == '#':
			start := s.lineno
			s.advance()
			for s.pos < len(s.src) && s.src[s.pos] != '#' {
				s.advance()
			}
			if s.pos >= len(s.src) {
				if !s.warned {
					log.Printf("assembler: line %d: unterminated comment", start)
					s.warned = true
				}
				return
			}
			s.pos++
		default:
			return
		}
	}
}

// atEnd returns true if only whitespace and comments remain.
func (s *scanner) atEnd() bool {
	s.skip()
	return s.pos >= len(s.src)
}

// expression scans a balanced $(...) expression at the current position.
func (s *scanner) expression() string {
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.advance()
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return string(s.src[start:s.pos])
			}
		}
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) isExpression() bool {
	return s.pos+1 < len(s.src) && s.src[s.pos] == '$' && s.src[s.pos+1] == '('
}

// word scans a token ending at whitespace, a comment, or stop.
func (s *scanner) word(stop byte) string {
	if s.isExpression() {
		return s.expression()
	}

	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c) || c == '#' || (stop != 0 && c == stop) {
			break
		}
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// next returns the next token, or "" at the end of input.
func (s *scanner) next() string {
	s.skip()
	return s.word(0)
}

// bracket scans a '[' token ']' operand, and returns the inner token.
func (s *scanner) bracket() (inner string, err error) {
	s.skip()
	if s.pos >= len(s.src) || s.src[s.pos] != '[' {
		err = ErrBracketOpen
		return
	}
	s.pos++

	s.skip()
	inner = s.word(']')
	if len(inner) == 0 {
		err = ErrOperandMissing
		return
	}

	s.skip()
	if s.pos >= len(s.src) || s.src[s.pos] != ']' {
		err = ErrBracketClose
		return
	}
	s.pos++

	return
}
