package formula

import (
	"fmt"
	"strconv"
)

// parser is a recursive-descent evaluator over the grammar
//
//	expr   := term (("+" | "-") term)*
//	term   := unary (("*" | "/") unary)*
//	unary  := ("+" | "-") unary | primary
//	primary:= number | "(" expr ")"
//
// The input has already passed the arithmetic whitelist.
type parser struct {
	src string
	pos int
}

// Eval evaluates a pure arithmetic expression
func Eval(src string) (float64, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.done() {
		return 0, ErrEmpty
	}

	value, err := p.expr()
	if err != nil {
		return 0, err
	}

	p.skipSpace()
	if !p.done() {
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	return value, nil
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.done() {
			return left, nil
		}
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.done() {
			return left, nil
		}
		op := p.src[p.pos]
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			left /= right
		}
	}
}

func (p *parser) unary() (float64, error) {
	p.skipSpace()
	if p.done() {
		return 0, p.errorf("unexpected end of expression")
	}
	switch p.src[p.pos] {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	p.skipSpace()
	if p.done() {
		return 0, p.errorf("unexpected end of expression")
	}

	if p.src[p.pos] == '(' {
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.done() || p.src[p.pos] != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	return p.number()
}

func (p *parser) number() (float64, error) {
	start := p.pos
	digits, dots := 0, 0
scan:
	for !p.done() {
		switch c := p.src[p.pos]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			break scan
		}
		p.pos++
	}
	if digits == 0 {
		if p.pos < len(p.src) {
			return 0, p.errorf("unexpected %q", p.src[p.pos])
		}
		return 0, p.errorf("expected number")
	}
	if dots > 1 {
		return 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", p.src[start:p.pos])}
	}

	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", p.src[start:p.pos])}
	}
	return v, nil
}

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}
