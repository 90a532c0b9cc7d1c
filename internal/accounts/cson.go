package accounts

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// parseCSON reads the subset of CoffeeScript Object Notation used by
// account files: indentation objects, {} and [] literals, quoted and
// triple-quoted strings, numbers, booleans, null, # and ### comments. String
// interpolation, regexps and expressions are not supported. The result is a
// JSON value tree.
func parseCSON(src string) (any, error) {
	toks, err := lexCSON(src)
	if err != nil {
		return nil, err
	}

	p := &csonParser{toks: toks}
	v, err := p.value()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("line %d: unexpected %s after document", t.line, t)
	}

	return v, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokString
	tokNumber
	tokIdent
	tokColon
	tokComma
	tokLBrace
	tokRBrace
	tokLBrack
	tokRBrack
)

type token struct {
	kind tokKind
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return "'" + t.text + "'"
	}
}

func (t token) isKey() bool {
	return t.kind == tokString || t.kind == tokIdent
}

func lexCSON(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	line, col := 1, 0
	i := 0

	advance := func(n int) {
		for _, r := range rs[i : i+n] {
			if r == '\n' {
				line++
				col = 0
			} else {
				col++
			}
		}
		i += n
	}

	for i < len(rs) {
		r := rs[i]

		switch {
		case hasRunes(rs[i:], "###") && !hasRunes(rs[i:], "####"):
			end := indexRunes(rs[i+3:], "###")
			if end < 0 {
				return nil, fmt.Errorf("line %d: unterminated block comment", line)
			}
			advance(end + 6)
			continue
		case r == '#':
			for i < len(rs) && rs[i] != '\n' {
				advance(1)
			}
			continue
		case unicode.IsSpace(r):
			advance(1)
			continue
		}

		start := token{line: line, col: col}
		n := 1

		switch {
		case strings.ContainsRune(":,{}[]", r):
			start.text = string(r)
			start.kind = map[rune]tokKind{
				':': tokColon, ',': tokComma,
				'{': tokLBrace, '}': tokRBrace,
				'[': tokLBrack, ']': tokRBrack,
			}[r]

		case hasRunes(rs[i:], "'''") || hasRunes(rs[i:], `"""`):
			text, consumed, err := lexBlockString(rs[i:], line)
			if err != nil {
				return nil, err
			}
			start.kind = tokString
			start.text = text
			n = consumed

		case r == '"' || r == '\'':
			text, consumed, err := lexString(rs[i:], line)
			if err != nil {
				return nil, err
			}
			start.kind = tokString
			start.text = text
			n = consumed

		case r == '-' || r == '+' || unicode.IsDigit(r):
			j := i + 1
			for j < len(rs) && (unicode.IsDigit(rs[j]) || strings.ContainsRune(".eE+-", rs[j])) {
				j++
			}
			start.kind = tokNumber
			start.text = string(rs[i:j])
			n = j - i

		case r == '_' || r == '$' || unicode.IsLetter(r):
			j := i + 1
			for j < len(rs) && (rs[j] == '_' || rs[j] == '$' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			start.kind = tokIdent
			start.text = string(rs[i:j])
			n = j - i

		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", line, r)
		}

		toks = append(toks, start)
		advance(n)
	}

	return append(toks, token{kind: tokEOF, line: line}), nil
}

func hasRunes(rs []rune, prefix string) bool {
	return strings.HasPrefix(string(rs[:min(len(rs), len(prefix))]), prefix)
}

func indexRunes(rs []rune, sub string) int {
	for i := range rs {
		if hasRunes(rs[i:], sub) {
			return i
		}
	}
	return -1
}

// lexString returns the unquoted single-line string and the number of runes
// consumed.
func lexString(rs []rune, line int) (string, int, error) {
	quote := rs[0]

	for i := 1; i < len(rs); i++ {
		switch rs[i] {
		case quote:
			s, err := unescape(rs[1:i], line)
			return s, i + 1, err
		case '\n':
			return "", 0, fmt.Errorf("line %d: unterminated string", line)
		case '\\':
			i++
		}
	}

	return "", 0, fmt.Errorf("line %d: unterminated string", line)
}

// lexBlockString reads a ''' or """ string. As in CoffeeScript, a blank
// first and last line are dropped and the common indentation is removed.
func lexBlockString(rs []rune, line int) (string, int, error) {
	delim := string(rs[:3])

	for i := 3; i < len(rs); i++ {
		if hasRunes(rs[i:], delim) {
			s, err := unescape([]rune(dedent(string(rs[3:i]))), line)
			return s, i + 3, err
		}
		if rs[i] == '\\' {
			i++
		}
	}

	return "", 0, fmt.Errorf("line %d: unterminated block string", line)
}

func dedent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, l := range lines {
		switch {
		case indent <= 0:
		case len(l) >= indent:
			lines[i] = l[indent:]
		default:
			lines[i] = ""
		}
	}

	return strings.Join(lines, "\n")
}

func unescape(rs []rune, line int) (string, error) {
	var sb strings.Builder

	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			sb.WriteRune(rs[i])
			continue
		}

		i++
		if i >= len(rs) {
			return "", fmt.Errorf("line %d: dangling escape", line)
		}

		switch e := rs[i]; e {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case 'r':
			sb.WriteRune('\r')
		case 'u':
			if i+4 >= len(rs) {
				return "", fmt.Errorf("line %d: bad unicode escape", line)
			}
			code, err := strconv.ParseUint(string(rs[i+1:i+5]), 16, 32)
			if err != nil {
				return "", fmt.Errorf("line %d: bad unicode escape: %w", line, err)
			}
			sb.WriteRune(rune(code))
			i += 4
		default:
			sb.WriteRune(e)
		}
	}

	return sb.String(), nil
}

type csonParser struct {
	toks []token
	pos  int
}

func (p *csonParser) peek() token {
	return p.toks[p.pos]
}

func (p *csonParser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *csonParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *csonParser) value() (any, error) {
	t := p.peek()

	switch {
	case t.kind == tokLBrack:
		return p.array()
	case t.kind == tokLBrace:
		return p.braceObject()
	case t.isKey() && p.peekAt(1).kind == tokColon:
		return p.indentObject(t.col)
	}

	return p.scalar()
}

func (p *csonParser) scalar() (any, error) {
	t := p.next()

	switch t.kind {
	case tokString:
		return t.text, nil
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %s", t.line, t.text)
		}
		return f, nil
	case tokIdent:
		switch t.text {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		case "null":
			return nil, nil
		}
	}

	return nil, fmt.Errorf("line %d: unexpected %s", t.line, t)
}

func (p *csonParser) array() (any, error) {
	p.next()
	out := []any{}

	for {
		switch t := p.peek(); t.kind {
		case tokRBrack:
			p.next()
			return out, nil
		case tokComma:
			p.next()
			continue
		case tokEOF:
			return nil, fmt.Errorf("line %d: unterminated array", t.line)
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (p *csonParser) braceObject() (any, error) {
	p.next()
	out := map[string]any{}

	for {
		t := p.peek()
		switch t.kind {
		case tokRBrace:
			p.next()
			return out, nil
		case tokComma:
			p.next()
			continue
		case tokEOF:
			return nil, fmt.Errorf("line %d: unterminated object", t.line)
		}

		if err := p.member(out, -1); err != nil {
			return nil, err
		}
	}
}

// indentObject reads key/value pairs that start at column col on
// successive lines.
func (p *csonParser) indentObject(col int) (any, error) {
	out := map[string]any{}

	for {
		if err := p.member(out, col); err != nil {
			return nil, err
		}

		t := p.peek()
		if t.kind == tokComma && p.peekAt(1).line == t.line && p.peekAt(1).isKey() && p.peekAt(2).kind == tokColon {
			p.next()
			continue
		}
		if !t.isKey() || t.col != col || p.peekAt(1).kind != tokColon {
			return out, nil
		}
	}
}

func (p *csonParser) member(out map[string]any, col int) error {
	k := p.next()
	if !k.isKey() {
		return fmt.Errorf("line %d: expected key, got %s", k.line, k)
	}
	if c := p.next(); c.kind != tokColon {
		return fmt.Errorf("line %d: expected ':' after key %q", c.line, k.text)
	}

	if v := p.peek(); v.line > k.line && col >= 0 && v.col <= col {
		return fmt.Errorf("line %d: missing value for key %q", k.line, k.text)
	}

	v, err := p.value()
	if err != nil {
		return err
	}

	if _, dup := out[k.text]; dup {
		return fmt.Errorf("line %d: duplicate key %q", k.line, k.text)
	}
	out[k.text] = v
	return nil
}
