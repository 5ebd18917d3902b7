package expr

import (
	"regexp"
	"strconv"
	"strings"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/schedule/numset"
)

var (
	tokenPattern = regexp.MustCompile(`\w+:|@?\w+|[-~!*()/,&|]`)
	isInt        = regexp.MustCompile(`^\d+$`)
	isUnitPrefix = regexp.MustCompile(`^\w+:$`)
)

// specials lists the recognised @-aliases.
var specials = map[string]bool{
	"@yearly": true, "@annually": true, "@monthly": true, "@weekly": true,
	"@daily": true, "@midnight": true, "@hourly": true, "@reboot": true,
}

// Tokenize lower-cases spec and splits it into tokens.
func Tokenize(spec string) ([]string, error) {
	spec = strings.ToLower(spec)
	var tokens []string
	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(spec, -1) {
		if gap := strings.TrimSpace(spec[last:loc[0]]); gap != "" {
			return nil, &gferrors.SyntaxError{Reason: "unexpected " + strconv.Quote(gap), Remaining: []string{gap}}
		}
		tokens = append(tokens, spec[loc[0]:loc[1]])
		last = loc[1]
	}
	if gap := strings.TrimSpace(spec[last:]); gap != "" {
		return nil, &gferrors.SyntaxError{Reason: "unexpected " + strconv.Quote(gap), Remaining: []string{gap}}
	}
	return tokens, nil
}

// parser is a recursive-descent parser over a token slice. Every production
// returns nil without consuming input when it does not match.
type parser struct {
	tokens []string
	err    error
}

// Parse parses spec into a raw tree.
func Parse(spec string) (Node, error) {
	tokens, err := Tokenize(spec)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	ast := p.union()
	if p.err != nil {
		return nil, p.err
	}
	if ast == nil {
		return nil, p.fail("empty expression")
	}
	if len(p.tokens) > 0 {
		return nil, p.fail("unexpected trailing tokens")
	}
	return ast, nil
}

func (p *parser) fail(reason string) error {
	if p.err == nil {
		p.err = &gferrors.SyntaxError{Reason: reason, Remaining: append([]string(nil), p.tokens...)}
	}
	return p.err
}

func (p *parser) peek(tok string) bool {
	return p.err == nil && len(p.tokens) > 0 && p.tokens[0] == tok
}

func (p *parser) shift() string {
	tok := p.tokens[0]
	p.tokens = p.tokens[1:]
	return tok
}

// need turns a missing subexpression into a syntax error.
func (p *parser) need(n Node) Node {
	if n == nil {
		p.fail("expected an expression")
	}
	return n
}

func (p *parser) number() (int, bool) {
	if p.err != nil || len(p.tokens) == 0 || !isInt.MatchString(p.tokens[0]) {
		return 0, false
	}
	n, err := strconv.Atoi(p.tokens[0])
	if err != nil {
		p.fail("number out of range")
		return 0, false
	}
	p.shift()
	return n, true
}

func (p *parser) atom() Node {
	if n, ok := p.number(); ok {
		return &Const{Set: numset.From(n)}
	}
	if p.err != nil || len(p.tokens) == 0 {
		return nil
	}

	tok := p.tokens[0]
	switch {
	case tok == "*":
		p.shift()
		return &Const{Set: numset.Full()}
	case tok == "(":
		p.shift()
		nest := p.need(p.union())
		if !p.peek(")") {
			p.fail(`missing ")"`)
			return nil
		}
		p.shift()
		return nest
	case isUnitPrefix.MatchString(tok):
		field, ok := LookupField(strings.TrimSuffix(tok, ":"))
		if !ok {
			return nil
		}
		p.shift()
		return &Unit{Field: field, Child: p.need(p.atom())}
	case specials[tok]:
		p.shift()
		return &Special{Name: tok}
	}

	if n, ok := weekdayNames[tok]; ok {
		p.shift()
		return &Unit{Field: Weekday, Child: &Const{Set: numset.From(n)}}
	}
	if n, ok := monthNames[tok]; ok {
		p.shift()
		return &Unit{Field: Month, Child: &Const{Set: numset.From(n)}}
	}
	return nil
}

func (p *parser) rangeExpr() Node {
	lo := p.atom()
	if lo == nil || !p.peek("-") {
		return lo
	}
	p.shift()
	return &Range{Lo: lo, Hi: p.need(p.atom())}
}

func (p *parser) step() Node {
	child := p.rangeExpr()
	if child == nil || !p.peek("/") {
		return child
	}
	p.shift()
	every, ok := p.number()
	if !ok {
		p.fail("expected a step count")
		return nil
	}
	if every <= 0 {
		p.fail("step must be positive")
		return nil
	}
	return &Step{Child: child, Every: every}
}

// list parses sep-separated items of the next tighter production.
func (p *parser) list(sep string, item func() Node, build func([]Node) Node) Node {
	head := item()
	if head == nil {
		return nil
	}
	items := []Node{head}
	for p.peek(sep) {
		p.shift()
		items = append(items, p.need(item()))
	}
	if p.err != nil {
		return nil
	}
	if len(items) == 1 {
		return head
	}
	return build(items)
}

func (p *parser) commaList() Node {
	return p.list(",", p.step, func(items []Node) Node { return &Union{Children: items} })
}

func (p *parser) unary() Node {
	switch {
	case p.peek("~"):
		p.shift()
		return &Reverse{Child: p.need(p.unary())}
	case p.peek("!"):
		p.shift()
		return &Invert{Child: p.need(p.unary())}
	}
	return p.commaList()
}

func (p *parser) rule() Node {
	var items []Node
	for {
		next := p.unary()
		if next == nil {
			break
		}
		items = append(items, next)
	}
	if p.err != nil || len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0]
	}
	return &Rule{Children: items}
}

func (p *parser) intersection() Node {
	return p.list("&", p.rule, func(items []Node) Node { return &Intersection{Children: items} })
}

func (p *parser) union() Node {
	return p.list("|", p.intersection, func(items []Node) Node { return &Union{Children: items} })
}
