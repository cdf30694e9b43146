package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// evalFormula evaluates an arithmetic formula against a variable table.
// The grammar supports + - * / ^ (also ** for exponentiation), unary minus,
// parentheses, numeric literals, variables, and the functions abs, round,
// min, max, sum, and len. Unknown variables evaluate to 0 so that formulas
// written against richer models still produce a number.
func evalFormula(expr string, vars map[string]float64) (float64, error) {
	p := &formulaParser{input: expr, vars: vars}
	result, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("formula %q produced a non-finite result", expr)
	}
	return result, nil
}

type formulaParser struct {
	input string
	pos   int
	vars  map[string]float64
}

// parseExpression handles + and -.
func (p *formulaParser) parseExpression() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpace()
		switch {
		case p.peek() == '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case p.peek() == '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles * and /.
func (p *formulaParser) parseTerm() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpace()
		switch {
		case p.peek() == '*' && !p.peekAt(1, '*'):
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.peek() == '/':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

// parsePower handles ^ and ** (right-associative).
func (p *formulaParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	p.skipSpace()
	if p.peek() == '^' {
		p.pos++
	} else if p.peek() == '*' && p.peekAt(1, '*') {
		p.pos += 2
	} else {
		return base, nil
	}

	exp, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

// parseUnary handles unary minus.
func (p *formulaParser) parseUnary() (float64, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	if p.peek() == '+' {
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, variables, function calls, and parentheses.
func (p *formulaParser) parsePrimary() (float64, error) {
	p.skipSpace()

	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of formula")
	}

	c := p.input[p.pos]

	if c == '(' {
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		p.pos++
		return v, nil
	}

	if c >= '0' && c <= '9' || c == '.' {
		return p.parseNumber()
	}

	if isIdentStart(rune(c)) {
		return p.parseIdentifier()
	}

	return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *formulaParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", p.input[start:p.pos], err)
	}
	return n, nil
}

func (p *formulaParser) parseIdentifier() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(rune(p.input[p.pos])) {
		p.pos++
	}
	name := p.input[start:p.pos]

	p.skipSpace()
	if p.peek() == '(' {
		return p.parseCall(name)
	}

	// Unknown variables default to 0.
	return p.vars[name], nil
}

func (p *formulaParser) parseCall(name string) (float64, error) {
	p.pos++ // consume '('

	var args []float64
	p.skipSpace()
	if p.peek() != ')' {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return 0, err
			}
			args = append(args, arg)

			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	p.skipSpace()
	if p.peek() != ')' {
		return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
	}
	p.pos++

	return applyFunction(name, args)
}

func applyFunction(name string, args []float64) (float64, error) {
	switch strings.ToLower(name) {
	case "abs":
		if len(args) != 1 {
			return 0, fmt.Errorf("abs expects 1 argument, got %d", len(args))
		}
		return math.Abs(args[0]), nil

	case "round":
		if len(args) != 1 {
			return 0, fmt.Errorf("round expects 1 argument, got %d", len(args))
		}
		return math.Round(args[0]), nil

	case "min":
		if len(args) == 0 {
			return 0, fmt.Errorf("min expects at least 1 argument")
		}
		m := args[0]
		for _, a := range args[1:] {
			m = math.Min(m, a)
		}
		return m, nil

	case "max":
		if len(args) == 0 {
			return 0, fmt.Errorf("max expects at least 1 argument")
		}
		m := args[0]
		for _, a := range args[1:] {
			m = math.Max(m, a)
		}
		return m, nil

	case "sum":
		s := 0.0
		for _, a := range args {
			s += a
		}
		return s, nil

	case "len":
		return float64(len(args)), nil

	default:
		return 0, fmt.Errorf("unknown function: %q", name)
	}
}

func (p *formulaParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *formulaParser) peekAt(offset int, c byte) bool {
	if p.pos+offset >= len(p.input) {
		return false
	}
	return p.input[p.pos+offset] == c
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
