package shape

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Syntax error classes. A *SyntaxError unwraps to exactly one of these.
var (
	ErrUnexpectedEOF  = errors.New("unexpected end of shape")
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrRedeclared     = errors.New("letter redeclared")
	ErrCycle          = errors.New("cyclic shape")
)

// SyntaxError locates a malformed shape string.
type SyntaxError struct {
	Shape string
	Pos   int // byte offset
	Msg   string
	Class error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("shape %q: %s at offset %d: %s", e.Shape, e.Class, e.Pos, e.Msg)
}

// Unwrap returns the error class.
func (e *SyntaxError) Unwrap() error { return e.Class }

// Parse turns a shape string into a Template.
//
//	classDef := letter [ '(' classDef* ')' ]
//
// Whitespace between tokens is ignored. A letter seen earlier refers to the
// same template node, which is how diamonds are written: in "A(B(d)c(d))"
// both d are one node. Uppercase letters may become classes.
func Parse(shape string) (*Template, error) {
	p := &parser{src: shape, t: newTemplate(shape), open: make(map[byte]bool)}
	if _, err := p.classDef(); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.fail(ErrUnexpectedChar, p.pos, fmt.Sprintf("%q after the root definition", p.src[p.pos]))
	}
	return p.t, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(shape string) *Template {
	t, err := Parse(shape)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src  string
	pos  int
	t    *Template
	open map[byte]bool // letters whose child list is being parsed
}

func (p *parser) classDef() (int, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, p.fail(ErrUnexpectedEOF, p.pos, "expected a letter")
	}
	ch := p.src[p.pos]
	if !isLetter(ch) {
		return 0, p.fail(ErrUnexpectedChar, p.pos, fmt.Sprintf("%q, expected a letter", ch))
	}
	at := p.pos
	p.pos++

	idx, seen := p.t.labels[ch]
	if seen && p.open[ch] {
		return 0, p.fail(ErrCycle, at, fmt.Sprintf("%q is its own supertype", ch))
	}
	if !seen {
		idx = p.t.add(ch)
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return idx, nil
	}
	if seen {
		return 0, p.fail(ErrRedeclared, p.pos, fmt.Sprintf("%q already has a definition", ch))
	}
	p.pos++

	p.open[ch] = true
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return 0, p.fail(ErrUnexpectedEOF, p.pos, fmt.Sprintf("expected ')' closing %q", ch))
		}
		if p.src[p.pos] == ')' {
			p.pos++
			break
		}
		child, err := p.classDef()
		if err != nil {
			return 0, err
		}
		p.t.nodes[idx].children = append(p.t.nodes[idx].children, child)
	}
	p.open[ch] = false
	return idx, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

// fail builds a SyntaxError with a caret hint under the offending offset.
func (p *parser) fail(class error, pos int, msg string) error {
	err := &SyntaxError{Shape: p.src, Pos: pos, Msg: msg, Class: class}
	return errors.WithHint(err, p.src+"\n"+strings.Repeat(" ", pos)+"^")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
