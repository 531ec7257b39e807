// Package token provides the set of lexical tokens for a liquid template.
package token

import (
	"fmt"
	"slices"
)

// Kind is the kind of a token.
type Kind int

//go:generate stringer -type Kind -linecomment
const (
	EOF          Kind = iota // EOF
	Error                    // Error
	Text                     // Text
	OpenOutput               // OpenOutput
	CloseOutput              // CloseOutput
	OpenTag                  // OpenTag
	CloseTag                 // CloseTag
	Ident                    // Ident
	Number                   // Number
	String                   // String
	At                       // At
	Dot                      // Dot
	LeftBracket              // LeftBracket
	RightBracket             // RightBracket
	Eq                       // Eq
	Comma                    // Comma
	Colon                    // Colon
	keywordStart             // keywordStart
	Assign                   // Assign
	Capture                  // Capture
	EndCapture               // EndCapture
	For                      // For
	In                       // In
	Else                     // Else
	EndFor                   // EndFor
	Reversed                 // Reversed
	Limit                    // Limit
	Offset                   // Offset
	Continue                 // Continue
	Cycle                    // Cycle
	IfChanged                // IfChanged
	EndIfChanged             // EndIfChanged
	True                     // True
	False                    // False
	Nil                      // Nil
	keywordEnd               // keywordEnd
)

// MarshalText implements [encoding.TextMarshaler] for [Kind].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsKeyword reports whether k is one of the keyword kinds.
func (k Kind) IsKeyword() bool {
	return k > keywordStart && k < keywordEnd
}

// IsWord reports whether k was scanned from a word, that is an [Ident] or a keyword.
//
// Keywords are only special in certain positions, everywhere else they may be
// used as ordinary names.
func (k Kind) IsWord() bool {
	return k == Ident || k.IsKeyword()
}

// Token is a lexical token in a liquid template.
type Token struct {
	Kind  Kind // The kind of token this is
	Start int  // Byte offset from the start of the file to the start of this token
	End   int  // Byte offset from the start of the file to the end of this token
}

// String implement [fmt.Stringer] for a [Token].
func (t Token) String() string {
	return fmt.Sprintf("<Token::%s start=%d, end=%d>", t.Kind, t.Start, t.End)
}

// Is reports whether the token is any of the provided [Kind]s.
func (t Token) Is(kinds ...Kind) bool {
	return slices.Contains(kinds, t.Kind)
}

// Keyword reports whether a string refers to a keyword, returning it's [Kind]
// and true if it is. Otherwise [Ident] and false are returned.
func Keyword(text string) (kind Kind, ok bool) {
	switch text {
	case "assign":
		return Assign, true
	case "capture":
		return Capture, true
	case "endcapture":
		return EndCapture, true
	case "for":
		return For, true
	case "in":
		return In, true
	case "else":
		return Else, true
	case "endfor":
		return EndFor, true
	case "reversed":
		return Reversed, true
	case "limit":
		return Limit, true
	case "offset":
		return Offset, true
	case "continue":
		return Continue, true
	case "cycle":
		return Cycle, true
	case "ifchanged":
		return IfChanged, true
	case "endifchanged":
		return EndIfChanged, true
	case "true":
		return True, true
	case "false":
		return False, true
	case "nil":
		return Nil, true
	default:
		return Ident, false
	}
}
