// Package parser implements the liquid template parser.
//
// The parser consumes the token stream produced by the scanner and compiles it directly
// into a tree of render nodes, there is no separate syntax tree. Syntax errors are gathered
// as [syntax.Diagnostic]s rather than stopping at the first one, the parser resynchronises
// at the end of the offending markup and carries on.
package parser

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.followtheprocess.codes/liquid/internal/lookup"
	"go.followtheprocess.codes/liquid/internal/render"
	"go.followtheprocess.codes/liquid/internal/syntax"
	"go.followtheprocess.codes/liquid/internal/syntax/scanner"
	"go.followtheprocess.codes/liquid/internal/syntax/token"
)

// ErrParse is a generic parsing error, details on the error are available
// from [Parser.Diagnostics].
var ErrParse = errors.New("parse error")

// Parser is the liquid template parser.
type Parser struct {
	diagnostics []syntax.Diagnostic // Diagnostics gathered during parsing
	scanner     *scanner.Scanner    // Scanner to produce tokens
	name        string              // Name of the file being parsed
	src         []byte              // Raw source text
	current     token.Token         // Current token under inspection
	next        token.Token         // Next token in the stream
	hadErrors   bool                // Whether we encountered parse errors
	trimNext    bool                // Whether the next text node has leading whitespace trimmed
	reportedEOF bool                // Whether an unexpected EOF has already been reported
}

// New initialises and returns a new [Parser] that parses the template src.
//
// The parser runs a scanner in the background, [Parser.Parse] must be called
// to consume it.
func New(name string, src []byte) *Parser {
	return start(name, src, scanner.New(name, src))
}

// start initialises a parser over an already running scanner.
func start(name string, src []byte, s *scanner.Scanner) *Parser {
	p := &Parser{
		scanner: s,
		name:    name,
		src:     src,
	}

	// Read 2 tokens so current and next are set
	p.advance()
	p.advance()

	return p
}

// Parse parses the template to completion returning its nodes and any parsing errors.
//
// The returned error will simply signify whether or not there were parse errors,
// [Parser.Diagnostics] has the full detail and should be preferred.
func (p *Parser) Parse() (render.Block, error) {
	if p == nil {
		return nil, errors.New("Parse called on nil parser")
	}

	body, _ := p.parseBlock()

	if p.hadErrors {
		return body, ErrParse
	}

	return body, nil
}

// Diagnostics returns any [syntax.Diagnostic] gathered during parsing.
func (p *Parser) Diagnostics() []syntax.Diagnostic {
	combined := slices.Concat(p.scanner.Diagnostics(), p.diagnostics)

	// Sort by file and line number
	slices.SortFunc(combined, func(a, b syntax.Diagnostic) int {
		return syntax.ComparePosition(a.Position, b.Position)
	})

	return combined
}

// ParseReference parses src as a single variable reference e.g. "user.addresses[0].city".
//
// It is a convenience for one-off lookups, diagnostics are joined into the returned error.
func ParseReference(name, src string) (lookup.Reference, error) {
	p := start(name, []byte(src), scanner.NewExpression(name, []byte(src)))

	ref, err := p.parseReference()
	if err == nil && !p.next.Is(token.EOF) {
		p.errorf("unexpected %s after reference", p.next.Kind)
		err = ErrParse
	}

	// Drain the scanner so it can finish
	for !p.current.Is(token.EOF, token.Error) {
		p.advance()
	}

	if p.current.Is(token.Error) {
		p.hadErrors = true
	}

	if err != nil || p.hadErrors {
		errs := []error{ErrParse}
		for _, diag := range p.Diagnostics() {
			errs = append(errs, errors.New(strings.TrimSpace(diag.String())))
		}

		return lookup.Reference{}, errors.Join(errs...)
	}

	return ref, nil
}

// advance advances the parser by a single token.
func (p *Parser) advance() {
	p.current = p.next
	p.next = p.scanner.Scan()
}

// expect asserts that the next token is one of the given kinds, emitting a syntax error if not.
//
// The parser is advanced only if the next token is of one of these kinds such that after returning
// p.current will be one of the kinds.
//
// It returns an [ErrParse] is the expectation is violated, nil otherwise.
func (p *Parser) expect(kinds ...token.Kind) error {
	if p.next.Is(token.Error) {
		// The scanner has already recorded a diagnostic for this
		p.hadErrors = true
		return ErrParse
	}

	switch len(kinds) {
	case 0:
		return nil
	case 1:
		if !p.next.Is(kinds[0]) {
			p.errorf("expected %s, got %s", kinds[0], p.next.Kind)
			return ErrParse
		}
	default:
		if !p.next.Is(kinds...) {
			p.errorf("expected one of %v, got %s", kinds, p.next.Kind)
			return ErrParse
		}
	}

	p.advance()

	return nil
}

// expectWord is like expect but accepts any identifier or keyword.
func (p *Parser) expectWord() error {
	if p.next.Is(token.Error) {
		p.hadErrors = true
		return ErrParse
	}

	if !p.next.Kind.IsWord() {
		p.errorf("expected %s, got %s", token.Ident, p.next.Kind)
		return ErrParse
	}

	p.advance()

	return nil
}

// expectClose expects the closing delimiter of a tag, noting any whitespace
// control marker on it.
func (p *Parser) expectClose(kind token.Kind) error {
	if err := p.expect(kind); err != nil {
		return err
	}

	p.trimNext = strings.HasPrefix(p.text(), "-")

	return nil
}

// position returns the parser's current position in the input as a [syntax.Position].
//
// The position is calculated based on the start offset of the current token.
func (p *Parser) position() syntax.Position {
	line := 1              // Line counter
	lastNewLineOffset := 0 // The byte offset of the (end of the) last newline seen

	for index, byt := range p.src {
		if index >= p.current.Start {
			break
		}

		if byt == '\n' {
			lastNewLineOffset = index + 1 // +1 to account for len("\n")
			line++
		}
	}

	// If the next token is EOF, we use the end of the current token as the syntax
	// error is likely to be unexpected EOF so we want to point to the end of the
	// current token as in "something should have gone here"
	start := p.current.Start
	if p.next.Is(token.EOF) {
		start = p.current.End
	}

	end := max(p.current.End, start)

	// The column is therefore the number of bytes between the end of the last newline
	// and the current position, +1 because editors columns start at 1. Applying this
	// correction here means you can click a syntax error in the terminal and be
	// taken to a precise location in an editor which is probably what we want to happen
	startCol := 1 + start - lastNewLineOffset
	endCol := 1 + end - lastNewLineOffset

	return syntax.Position{
		Name:     p.name,
		Offset:   p.current.Start,
		Line:     line,
		StartCol: startCol,
		EndCol:   endCol,
	}
}

// error records a diagnostic at the current position.
func (p *Parser) error(msg string) {
	p.hadErrors = true

	p.diagnostics = append(p.diagnostics, syntax.Diagnostic{
		Msg:      msg,
		Position: p.position(),
	})
}

// errorf calls error with a formatted message.
func (p *Parser) errorf(format string, a ...any) {
	p.error(fmt.Sprintf(format, a...))
}

// text returns the chunk of source text described by the p.current token.
func (p *Parser) text() string {
	return string(p.src[p.current.Start:p.current.End])
}

// synchronise is called during error recovery, after a parse error we are unsure of
// the local state as the syntax is invalid.
//
// synchronise discards tokens up to and including the end of the current markup, after
// which point the parser should be back in sync and can continue normally.
func (p *Parser) synchronise() {
	for !p.current.Is(token.EOF, token.Error) {
		closed := p.current.Is(token.CloseOutput, token.CloseTag)
		p.advance()

		if closed {
			return
		}
	}
}

// parseBlock parses nodes until EOF or until it reaches a tag whose name is one of
// ends, returning the nodes and the kind of tag that ended the block.
//
// When it returns because of an end tag, p.current is the '{%' opening that tag.
func (p *Parser) parseBlock(ends ...token.Kind) (render.Block, token.Kind) {
	var block render.Block

	for {
		switch p.current.Kind {
		case token.EOF:
			if len(ends) > 0 && !p.reportedEOF {
				p.reportedEOF = true
				p.errorf("unexpected end of input, expected one of %v", ends)
			}

			return block, token.EOF
		case token.Error:
			// The scanner has already recorded a diagnostic for this
			p.hadErrors = true
			return block, token.Error
		case token.Text:
			block = p.appendText(block)
			p.advance()
		case token.OpenOutput:
			block = p.trimPrevious(block)

			node, err := p.parseOutput()
			if err != nil {
				p.synchronise()
				continue
			}

			block = append(block, node)
			p.advance()
		case token.OpenTag:
			block = p.trimPrevious(block)

			if p.next.Is(ends...) {
				return block, p.next.Kind
			}

			node, err := p.parseTag()
			if err != nil {
				p.synchronise()
				continue
			}

			block = append(block, node)
			p.advance()
		default:
			p.errorf("unexpected %s", p.current.Kind)
			p.synchronise()
		}
	}
}

// appendText appends the current text token to block, honouring any whitespace
// control on the preceding markup.
func (p *Parser) appendText(block render.Block) render.Block {
	text := p.text()
	if p.trimNext {
		text = strings.TrimLeftFunc(text, unicode.IsSpace)
		p.trimNext = false
	}

	if text == "" {
		return block
	}

	return append(block, render.Text(text))
}

// trimPrevious handles whitespace control on an opening delimiter, trimming trailing
// whitespace from the text node before it.
func (p *Parser) trimPrevious(block render.Block) render.Block {
	p.trimNext = false

	if !strings.HasSuffix(p.text(), "-") || len(block) == 0 {
		return block
	}

	last, ok := block[len(block)-1].(render.Text)
	if !ok {
		return block
	}

	trimmed := strings.TrimRightFunc(string(last), unicode.IsSpace)
	if trimmed == "" {
		return block[:len(block)-1]
	}

	block[len(block)-1] = render.Text(trimmed)

	return block
}

// parseOutput parses an output statement i.e. '{{' <expr> '}}'.
func (p *Parser) parseOutput() (render.Output, error) {
	if p.next.Is(token.CloseOutput) {
		// "{{ }}" is valid and outputs nothing
		p.advance()
		p.trimNext = strings.HasPrefix(p.text(), "-")

		return render.Output{Expr: lookup.Literal{}}, nil
	}

	p.advance()

	expr, err := p.parseExpression()
	if err != nil {
		return render.Output{}, err
	}

	if err := p.expectClose(token.CloseOutput); err != nil {
		return render.Output{}, err
	}

	return render.Output{Expr: expr}, nil
}

// parseTag parses a tag, p.current is the opening '{%'.
func (p *Parser) parseTag() (render.Node, error) {
	if err := p.expectWord(); err != nil {
		return nil, err
	}

	switch p.current.Kind {
	case token.Assign:
		return p.parseAssign()
	case token.Capture:
		return p.parseCapture()
	case token.For:
		return p.parseFor()
	case token.Cycle:
		return p.parseCycle()
	case token.IfChanged:
		return p.parseIfChanged()
	default:
		p.errorf("unknown tag %q", p.text())
		return nil, ErrParse
	}
}

// parseEndTag consumes a closing tag e.g. '{% endfor %}', p.current is the opening '{%'
// and p.next is the tag name, which the caller has already checked.
func (p *Parser) parseEndTag() error {
	p.advance()
	return p.expectClose(token.CloseTag)
}

// parseAssign parses an assign tag i.e. '{% assign <ident> = <expr> %}'.
func (p *Parser) parseAssign() (render.Assign, error) {
	if err := p.expectWord(); err != nil {
		return render.Assign{}, err
	}

	name := p.text()

	if err := p.expect(token.Eq); err != nil {
		return render.Assign{}, err
	}

	p.advance()

	expr, err := p.parseExpression()
	if err != nil {
		return render.Assign{}, err
	}

	if err := p.expectClose(token.CloseTag); err != nil {
		return render.Assign{}, err
	}

	return render.Assign{Name: name, Expr: expr}, nil
}

// parseCapture parses a capture block i.e. '{% capture <ident> %} ... {% endcapture %}'.
func (p *Parser) parseCapture() (render.Capture, error) {
	if err := p.expectWord(); err != nil {
		return render.Capture{}, err
	}

	name := p.text()

	if err := p.expectClose(token.CloseTag); err != nil {
		return render.Capture{}, err
	}

	p.advance()

	body, end := p.parseBlock(token.EndCapture)
	if end != token.EndCapture {
		return render.Capture{}, ErrParse
	}

	if err := p.parseEndTag(); err != nil {
		return render.Capture{}, err
	}

	return render.Capture{Name: name, Body: body}, nil
}

// parseFor parses a for loop i.e.
// '{% for <ident> in <expr> [reversed] [limit:<expr>] [offset:(<expr>|continue)] %} ... [{% else %} ...] {% endfor %}'.
func (p *Parser) parseFor() (render.For, error) {
	var loop render.For

	if err := p.expectWord(); err != nil {
		return loop, err
	}

	loop.Var = p.text()

	if err := p.expect(token.In); err != nil {
		return loop, err
	}

	p.advance()

	collection, err := p.parseExpression()
	if err != nil {
		return loop, err
	}

	loop.Collection = collection

	for !p.next.Is(token.CloseTag) {
		if err := p.expect(token.Reversed, token.Limit, token.Offset); err != nil {
			return loop, err
		}

		switch p.current.Kind {
		case token.Reversed:
			loop.Reversed = true
		case token.Limit:
			loop.Limit, err = p.parseParameter()
			if err != nil {
				return loop, err
			}
		case token.Offset:
			if err := p.expect(token.Colon); err != nil {
				return loop, err
			}

			if p.next.Is(token.Continue) {
				p.advance()
				loop.OffsetContinue = true

				continue
			}

			p.advance()

			loop.Offset, err = p.parseExpression()
			if err != nil {
				return loop, err
			}
		}
	}

	if err := p.expectClose(token.CloseTag); err != nil {
		return loop, err
	}

	p.advance()

	body, end := p.parseBlock(token.Else, token.EndFor)
	loop.Body = body

	if end == token.Else {
		if err := p.parseEndTag(); err != nil {
			return loop, err
		}

		p.advance()

		loop.Else, end = p.parseBlock(token.EndFor)
	}

	if end != token.EndFor {
		return loop, ErrParse
	}

	if err := p.parseEndTag(); err != nil {
		return loop, err
	}

	return loop, nil
}

// parseParameter parses the ':' <expr> of a named parameter, p.current is the name.
func (p *Parser) parseParameter() (lookup.Expression, error) {
	if err := p.expect(token.Colon); err != nil {
		return nil, err
	}

	p.advance()

	return p.parseExpression()
}

// parseCycle parses a cycle tag i.e. '{% cycle [<expr>:] <expr> [, <expr>]... %}'.
func (p *Parser) parseCycle() (render.Cycle, error) {
	var cycle render.Cycle

	p.advance()

	first, err := p.parseExpression()
	if err != nil {
		return cycle, err
	}

	if p.next.Is(token.Colon) {
		cycle.Group = first

		p.advance()
		p.advance()

		first, err = p.parseExpression()
		if err != nil {
			return cycle, err
		}
	}

	cycle.Values = append(cycle.Values, first)

	for p.next.Is(token.Comma) {
		p.advance()
		p.advance()

		value, err := p.parseExpression()
		if err != nil {
			return cycle, err
		}

		cycle.Values = append(cycle.Values, value)
	}

	if err := p.expectClose(token.CloseTag); err != nil {
		return cycle, err
	}

	return cycle, nil
}

// parseIfChanged parses an ifchanged block i.e. '{% ifchanged %} ... {% endifchanged %}'.
func (p *Parser) parseIfChanged() (render.IfChanged, error) {
	if err := p.expectClose(token.CloseTag); err != nil {
		return render.IfChanged{}, err
	}

	p.advance()

	body, end := p.parseBlock(token.EndIfChanged)
	if end != token.EndIfChanged {
		return render.IfChanged{}, ErrParse
	}

	if err := p.parseEndTag(); err != nil {
		return render.IfChanged{}, err
	}

	return render.IfChanged{Body: body}, nil
}

// parseExpression parses an expression, p.current is its first token and when it
// returns p.current is its last.
func (p *Parser) parseExpression() (lookup.Expression, error) {
	switch p.current.Kind {
	case token.String:
		text := p.text()
		return lookup.Literal{Value: text[1 : len(text)-1], Text: text}, nil
	case token.Number:
		return p.parseNumber()
	case token.True:
		return lookup.Literal{Value: true, Text: p.text()}, nil
	case token.False:
		return lookup.Literal{Value: false, Text: p.text()}, nil
	case token.Nil:
		return lookup.Literal{Value: nil, Text: p.text()}, nil
	case token.At, token.LeftBracket:
		return p.parseReference()
	case token.Error:
		p.hadErrors = true
		return nil, ErrParse
	default:
		if p.current.Kind.IsWord() {
			return p.parseReference()
		}

		p.errorf("unexpected %s in expression", p.current.Kind)

		return nil, ErrParse
	}
}

// parseNumber parses a number literal, integers become int and anything with a
// decimal point becomes float64.
func (p *Parser) parseNumber() (lookup.Literal, error) {
	text := p.text()

	if !strings.Contains(text, ".") {
		n, err := strconv.Atoi(text)
		if err == nil {
			return lookup.Literal{Value: n, Text: text}, nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.errorf("invalid number %q: %v", text, err)
		return lookup.Literal{}, ErrParse
	}

	return lookup.Literal{Value: f, Text: text}, nil
}

// parseReference parses a variable reference, p.current is its first token.
//
//	name            plain root
//	@name           the name to look up is the text of the value of name
//	[name]          same as @name
//	["name"]        plain root, allows names that aren't valid identifiers
func (p *Parser) parseReference() (lookup.Reference, error) {
	var ref lookup.Reference

	switch {
	case p.current.Is(token.At):
		if err := p.expectWord(); err != nil {
			return ref, err
		}

		ref.Root = lookup.Root{Name: p.text(), Indirect: true}
	case p.current.Is(token.LeftBracket):
		p.advance()

		switch {
		case p.current.Is(token.String):
			text := p.text()
			ref.Root = lookup.Root{Name: text[1 : len(text)-1]}
		case p.current.Kind.IsWord():
			ref.Root = lookup.Root{Name: p.text(), Indirect: true}
		default:
			p.errorf("expected %s or %s, got %s", token.Ident, token.String, p.current.Kind)
			return ref, ErrParse
		}

		if err := p.expect(token.RightBracket); err != nil {
			return ref, err
		}
	case p.current.Kind.IsWord():
		ref.Root = lookup.Root{Name: p.text()}
	default:
		p.errorf("expected %s, got %s", token.Ident, p.current.Kind)
		return ref, ErrParse
	}

	for p.next.Is(token.Dot, token.LeftBracket) {
		p.advance()

		if p.current.Is(token.Dot) {
			if err := p.expectWord(); err != nil {
				return ref, err
			}

			ref.Steps = append(ref.Steps, lookup.Property{Name: p.text()})

			continue
		}

		p.advance()

		key, err := p.parseExpression()
		if err != nil {
			return ref, err
		}

		if err := p.expect(token.RightBracket); err != nil {
			return ref, err
		}

		ref.Steps = append(ref.Steps, lookup.Subscript{Key: key})
	}

	return ref, nil
}
