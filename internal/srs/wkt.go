package srs

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// wktNode is a KEYWORD[arg, ...] element of a WKT document.
type wktNode struct {
	keyword string
	args    []wktArg
}

// wktArg is one argument of a node: a nested node, a quoted string,
// a number or a bare enumeration word such as NORTH.
type wktArg struct {
	node  *wktNode
	str   string
	num   float64
	isNum bool
	isStr bool
	word  string
}

// child returns the first direct child node with one of the keywords.
func (n *wktNode) child(keywords ...string) *wktNode {
	for _, a := range n.args {
		if a.node != nil && keywordIn(a.node.keyword, keywords) {
			return a.node
		}
	}
	return nil
}

func (n *wktNode) children(keywords ...string) []*wktNode {
	var out []*wktNode
	for _, a := range n.args {
		if a.node != nil && keywordIn(a.node.keyword, keywords) {
			out = append(out, a.node)
		}
	}
	return out
}

// name returns the leading quoted string of the node.
func (n *wktNode) name() string {
	if len(n.args) > 0 && n.args[0].isStr {
		return n.args[0].str
	}
	return ""
}

// number returns the i-th argument as a number.
func (n *wktNode) number(i int) (float64, bool) {
	if i < len(n.args) && n.args[i].isNum {
		return n.args[i].num, true
	}
	return 0, false
}

// text returns the i-th argument as text, formatting numbers.
func (n *wktNode) text(i int) string {
	if i >= len(n.args) {
		return ""
	}
	a := n.args[i]
	switch {
	case a.isStr:
		return a.str
	case a.isNum:
		return formatFloat(a.num)
	}
	return a.word
}

func keywordIn(kw string, keywords []string) bool {
	for _, k := range keywords {
		if strings.EqualFold(kw, k) {
			return true
		}
	}
	return false
}

type wktParser struct {
	src string
	pos int
}

// parseWKTTree parses a single WKT element spanning the whole input.
func parseWKTTree(s string) (*wktNode, error) {
	p := &wktParser{src: s}
	p.skipSpace()
	kw := p.ident()
	if kw == "" {
		return nil, p.errorf("expected keyword")
	}
	n, err := p.node(kw)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input")
	}
	return n, nil
}

func (p *wktParser) errorf(format string, args ...any) error {
	err := errors.Newf(format, args...)
	return errors.Mark(errors.Wrapf(err, "WKT at offset %d", p.pos), ErrInvalidCRSDefinition)
}

func (p *wktParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *wktParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *wktParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *wktParser) node(keyword string) (*wktNode, error) {
	p.skipSpace()
	open := p.peek()
	if open != '[' && open != '(' {
		return nil, p.errorf("expected '[' after %s", keyword)
	}
	closing := byte(']')
	if open == '(' {
		closing = ')'
	}
	p.pos++

	n := &wktNode{keyword: strings.ToUpper(keyword)}
	p.skipSpace()
	if p.peek() == closing {
		p.pos++
		return n, nil
	}
	for {
		a, err := p.arg()
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, a)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return n, nil
		default:
			return nil, p.errorf("expected ',' or '%c' in %s", closing, keyword)
		}
	}
}

func (p *wktParser) arg() (wktArg, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '"':
		s, err := p.quoted()
		return wktArg{str: s, isStr: true}, err
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		f, err := p.number()
		return wktArg{num: f, isNum: true}, err
	}

	word := p.ident()
	if word == "" {
		return wktArg{}, p.errorf("unexpected %q", c)
	}
	p.skipSpace()
	if c := p.peek(); c == '[' || c == '(' {
		n, err := p.node(word)
		return wktArg{node: n}, err
	}
	return wktArg{word: word}, nil
}

func (p *wktParser) quoted() (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		if c != '"' {
			b.WriteByte(c)
			continue
		}
		if p.peek() == '"' {
			b.WriteByte('"')
			p.pos++
			continue
		}
		return b.String(), nil
	}
	return "", p.errorf("unterminated string")
}

func (p *wktParser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("bad number %q", p.src[start:p.pos])
	}
	return f, nil
}

// wktWriter builds WKT1 text in GDAL's compact single-line layout.
type wktWriter struct {
	b strings.Builder
}

func (w *wktWriter) open(keyword, name string) {
	w.b.WriteString(keyword)
	w.b.WriteString(`["`)
	w.b.WriteString(strings.ReplaceAll(name, `"`, `""`))
	w.b.WriteByte('"')
}

func (w *wktWriter) num(v float64) {
	w.b.WriteByte(',')
	w.b.WriteString(formatFloat(v))
}

func (w *wktWriter) str(s string) {
	w.b.WriteString(`,"`)
	w.b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	w.b.WriteByte('"')
}

func (w *wktWriter) sep() {
	w.b.WriteByte(',')
}

func (w *wktWriter) close() {
	w.b.WriteByte(']')
}

func (w *wktWriter) leaf(keyword, name string, values ...float64) {
	w.open(keyword, name)
	for _, v := range values {
		w.num(v)
	}
	w.close()
}

func (w *wktWriter) String() string {
	return w.b.String()
}
