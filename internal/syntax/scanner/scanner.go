// Package scanner implements a lexical scanner for liquid templates, reading the raw
// source text and emitting a stream of tokens to be consumed by the parser.
//
// The scanner is a concurrent, state-function based scanner similar to that described by Rob Pike
// in his talk [Lexical Scanning in Go], based on the implementation of text/template in the Go
// standard library.
//
// The scanner proceeds one utf-8 rune at a time until a particular token is recognised,
// the token is then "emitted" over a channel where it may be consumed by a client e.g. the parser.
//
// The state of the scanner is maintained between token emits unlike a more conventional
// switch-based scanner that must determine it's current state from scratch in every loop.
//
// This scanner uses "scanFns" to pass the state from one loop to an another.
//
// The 'run' method consumes these "scanFns" which return states in a continual loop until nil is returned
// marking the fact that either "there is nothing more to scan" or "we've hit an error" at which point
// the scanner closes the tokens channel, which will be picked up by the parser as a
// signal that the input stream has ended.
//
// A similar approach is used in [BurntSushi/toml].
//
// [Lexical Scanning in Go]: https://go.dev/talks/2011/lex.slide#1
// [BurntSushi/toml]: https://github.com/BurntSushi/toml/blob/master/lex.go
package scanner

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.followtheprocess.codes/liquid/internal/syntax"
	"go.followtheprocess.codes/liquid/internal/syntax/token"
)

const (
	eof        = rune(-1) // eof signifies we have reached the end of the input.
	bufferSize = 32       // benchmarks suggest this is the optimum token channel buffer size
)

// Delimiters.
const (
	openOutput  = "{{"
	closeOutput = "}}"
	openTag     = "{%"
	closeTag    = "%}"
	trim        = '-' // Whitespace control marker e.g. "{{-" or "-%}"
)

// scanFn represents the state of the scanner as a function that does the work
// associated with the current state, then returns the next state.
type scanFn func(*Scanner) scanFn

// Scanner is the liquid template scanner.
type Scanner struct {
	tokens            chan token.Token    // Channel on which to emit scanned tokens
	name              string              // Name of the file
	closer            string              // Closing delimiter of the markup being scanned, "" outside markup
	diagnostics       []syntax.Diagnostic // Diagnostics gathered during scanning
	src               []byte              // Raw source text
	start             int                 // The start position of the current token
	pos               int                 // Current scanner position in src (bytes, 0 indexed)
	line              int                 // Current line number, 1 indexed
	currentLineOffset int                 // Offset at which the current line started
	mu                sync.RWMutex        // Guards diagnostics
}

// New returns a new [Scanner] for a whole template and kicks off the state machine in a goroutine.
//
// The caller must consume tokens until [token.EOF] or [token.Error] or the goroutine will leak.
func New(name string, src []byte) *Scanner {
	return start(name, src, scanText)
}

// NewExpression returns a new [Scanner] for a bare expression, as if it were the contents
// of an output statement without the surrounding delimiters e.g. "user.addresses[0]".
func NewExpression(name string, src []byte) *Scanner {
	return start(name, src, scanMarkup)
}

// start builds a scanner and runs it from the given initial state.
func start(name string, src []byte, initial scanFn) *Scanner {
	s := &Scanner{
		tokens: make(chan token.Token, bufferSize),
		name:   name,
		src:    src,
		line:   1,
	}

	// run terminates when the scanning state machine is finished and all the
	// tokens are drained from s.tokens, so no other synchronisation needed here
	go s.run(initial)

	return s
}

// Scan scans the input and returns the next token.
//
// Once the input is exhausted it returns [token.EOF] forever.
func (s *Scanner) Scan() token.Token {
	tok, ok := <-s.tokens
	if !ok {
		return token.Token{Kind: token.EOF, Start: len(s.src), End: len(s.src)}
	}

	return tok
}

// Diagnostics returns the list of diagnostics gathered during scanning.
func (s *Scanner) Diagnostics() []syntax.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a copy so caller can't mutate the original diagnostics slice
	diagCopy := make([]syntax.Diagnostic, 0, len(s.diagnostics))
	diagCopy = append(diagCopy, s.diagnostics...)

	return diagCopy
}

// next returns the next utf8 rune in the input, or [eof], and advances the scanner
// over that rune such that successive calls to [Scanner.next] iterate through
// src one rune at a time.
func (s *Scanner) next() rune {
	if s.pos >= len(s.src) {
		return eof
	}

	char, width := utf8.DecodeRune(s.src[s.pos:])
	s.pos += width

	if char == '\n' {
		s.line++
		s.currentLineOffset = s.pos
	}

	return char
}

// peek returns the next utf8 rune in the input, or [eof], but does not
// advance the scanner.
//
// Successive calls to peek simply return the same rune again and again.
func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return eof
	}

	char, _ := utf8.DecodeRune(s.src[s.pos:])

	return char
}

// rest returns the rest of the input from the current scanner position,
// or nil if the scanner is at EOF.
func (s *Scanner) rest() []byte {
	if s.pos >= len(s.src) {
		return nil
	}

	return s.src[s.pos:]
}

// skip ignores any characters for which the predicate returns true, stopping at the
// first one that returns false such that after it returns, [Scanner.next] returns the
// first 'false' char.
//
// The scanner start position is brought up to the current position before returning, effectively
// ignoring everything it's travelled over in the meantime.
func (s *Scanner) skip(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}

	s.start = s.pos
}

// restHasPrefix reports whether the remainder of the input begins with the
// provided run of characters.
func (s *Scanner) restHasPrefix(prefix string) bool {
	return bytes.HasPrefix(s.rest(), []byte(prefix))
}

// takeWhile consumes characters so long as the predicate returns true, stopping at the
// first one that returns false such that after it returns, [Scanner.next] returns the first 'false' rune.
func (s *Scanner) takeWhile(predicate func(r rune) bool) {
	for predicate(s.peek()) {
		s.next()
	}
}

// takeExact consumes exactly the provided text if it is the very next thing
// the scanner encounters.
//
// If the next characters in src do not match, this is a no-op.
func (s *Scanner) takeExact(match string) {
	if !s.restHasPrefix(match) {
		return
	}

	for range match {
		s.next()
	}
}

// atCloser reports whether the scanner is sat on the closing delimiter of the current
// markup, with or without the whitespace control marker.
func (s *Scanner) atCloser() bool {
	if s.closer == "" {
		return false
	}

	return s.restHasPrefix(s.closer) || s.restHasPrefix(string(trim)+s.closer)
}

// emit passes a token over the tokens channel, using the scanner's internal
// state to populate position information.
func (s *Scanner) emit(kind token.Kind) {
	s.tokens <- token.Token{
		Kind:  kind,
		Start: s.start,
		End:   s.pos,
	}

	s.start = s.pos
}

// run starts the state machine for the scanner, it runs with each [scanFn] returning the next
// state until one returns nil (typically in response to an error or eof), at which point the tokens channel
// is closed as a signal to the receiver that no more tokens will be sent.
func (s *Scanner) run(initial scanFn) {
	for state := initial; state != nil; {
		state = state(s)
	}

	close(s.tokens)
}

// error calculates the position information and records a diagnostic, emitting an
// error token in the process.
func (s *Scanner) error(msg string) {
	// Column is the number of bytes between the last newline and the current position
	// +1 because columns are 1 indexed
	startCol := max(1+s.start-s.currentLineOffset, 1)
	endCol := max(1+s.pos-s.currentLineOffset, startCol)

	position := syntax.Position{
		Name:     s.name,
		Offset:   s.start,
		Line:     s.line,
		StartCol: startCol,
		EndCol:   endCol,
	}

	diag := syntax.Diagnostic{
		Position: position,
		Msg:      msg,
	}

	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, diag)
	s.mu.Unlock()

	s.emit(token.Error)
}

// errorf calls error with a formatted message.
func (s *Scanner) errorf(format string, a ...any) {
	s.error(fmt.Sprintf(format, a...))
}

// scanText scans literal template text up to the next opening delimiter.
func scanText(s *Scanner) scanFn {
	for !s.restHasPrefix(openOutput) && !s.restHasPrefix(openTag) && s.peek() != eof {
		s.next()
	}

	if s.pos > s.start {
		s.emit(token.Text)
	}

	switch {
	case s.restHasPrefix(openOutput):
		return scanOpen(openOutput, closeOutput, token.OpenOutput)
	case s.restHasPrefix(openTag):
		return scanOpen(openTag, closeTag, token.OpenTag)
	default:
		s.emit(token.EOF)
		return nil
	}
}

// scanOpen returns a state that scans an opening delimiter and its optional
// whitespace control marker.
func scanOpen(open, closer string, kind token.Kind) scanFn {
	return func(s *Scanner) scanFn {
		s.takeExact(open)

		if s.peek() == trim {
			s.next()
		}

		s.emit(kind)
		s.closer = closer

		return scanMarkup
	}
}

// scanMarkup scans the inside of an output statement or tag, or a bare expression.
func scanMarkup(s *Scanner) scanFn {
	s.skip(unicode.IsSpace)

	if s.atCloser() {
		return scanClose
	}

	switch char := s.next(); char {
	case eof:
		if s.closer == "" {
			s.emit(token.EOF)
			return nil
		}

		s.errorf("unterminated markup, expected %q", s.closer)

		return nil
	case '.':
		s.emit(token.Dot)
	case '[':
		s.emit(token.LeftBracket)
	case ']':
		s.emit(token.RightBracket)
	case '=':
		s.emit(token.Eq)
	case ',':
		s.emit(token.Comma)
	case ':':
		s.emit(token.Colon)
	case '@':
		s.emit(token.At)
	case '"', '\'':
		return scanString(char)
	case '-':
		if !isDigit(s.peek()) {
			s.errorf("unexpected character: %q", char)
			return nil
		}

		return scanNumber
	default:
		switch {
		case isDigit(char):
			return scanNumber
		case isAlpha(char) || char == '_':
			return scanWord
		default:
			s.errorf("unexpected character: %q", char)
			return nil
		}
	}

	return scanMarkup
}

// scanClose scans the closing delimiter of the current markup.
func scanClose(s *Scanner) scanFn {
	if s.peek() == trim {
		s.next()
	}

	s.takeExact(s.closer)

	kind := token.CloseOutput
	if s.closer == closeTag {
		kind = token.CloseTag
	}

	s.emit(kind)
	s.closer = ""

	return scanText
}

// scanString returns a state that scans a string literal quoted with quote.
//
// It assumes the opening quote has already been consumed.
func scanString(quote rune) scanFn {
	return func(s *Scanner) scanFn {
		for {
			switch s.next() {
			case quote:
				s.emit(token.String)
				return scanMarkup
			case eof:
				s.errorf("unterminated string literal")
				return nil
			}
		}
	}
}

// scanNumber scans an integer or decimal number, the first digit (or '-')
// has already been consumed.
func scanNumber(s *Scanner) scanFn {
	s.takeWhile(isDigit)

	// Only a decimal point if there's a digit after it, otherwise it's a property access
	if s.peek() == '.' && len(s.rest()) > 1 && isDigit(rune(s.rest()[1])) {
		s.next()
		s.takeWhile(isDigit)
	}

	s.emit(token.Number)

	return scanMarkup
}

// scanWord scans an identifier or keyword, the first character has already been consumed.
func scanWord(s *Scanner) scanFn {
	for isIdent(s.peek()) {
		// A '-' is only part of the word if it isn't the start of a trimmed closing delimiter
		if s.peek() == trim && s.atCloserAfter(1) {
			break
		}

		s.next()
	}

	text := string(s.src[s.start:s.pos])
	kind, _ := token.Keyword(text)
	s.emit(kind)

	return scanMarkup
}

// atCloserAfter reports whether the closing delimiter starts n bytes ahead.
func (s *Scanner) atCloserAfter(n int) bool {
	rest := s.rest()
	if s.closer == "" || len(rest) < n {
		return false
	}

	return bytes.HasPrefix(rest[n:], []byte(s.closer))
}

// isAlpha reports whether r is an alpha character.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isIdent reports whether r is a valid identifier character.
func isIdent(r rune) bool {
	return isAlpha(r) || isDigit(r) || r == '_' || r == '-' || r == '?'
}

// isDigit reports whether r is a valid ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
