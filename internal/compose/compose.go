// Package compose provides the output composers used to turn a sequence of rendered
// fragments into the final result of a render pass.
//
// A [Composer] hands out one [Appender] per render pass (or per captured block), fragments
// are appended in render order and [Appender.Result] is called once at the end. The default
// [Concat] composer joins everything into a string, [Fragments] keeps the typed values so
// callers can post-process a render as a list rather than flattened text.
package compose

import (
	"fmt"
	"strings"
)

// fragmentSize is a rough guess at the average size in bytes of a rendered fragment,
// used along with the caller's hint to pre-size text buffers.
const fragmentSize = 16

// Appender accumulates the fragments of a single render.
type Appender interface {
	// Append adds a fragment, fragments must be appended in render order.
	Append(fragment any)

	// Result returns the composed output. It is called at most once.
	Result() any
}

// Composer creates appenders.
type Composer interface {
	// NewAppender returns a fresh [Appender], hint is the estimated number of
	// fragments that will be appended and may be used for pre-sizing. It is
	// not a hard limit.
	NewAppender(hint int) Appender
}

// Names of the built in composers, as used in configuration files.
const (
	NameConcat    = "text"
	NameFragments = "fragments"
)

// Lookup returns the built in [Composer] registered under name.
func Lookup(name string) (Composer, error) {
	switch name {
	case NameConcat, "":
		return Concat{}, nil
	case NameFragments:
		return Fragments{}, nil
	default:
		return nil, fmt.Errorf("unknown composer %q, allowed values are %q, %q", name, NameConcat, NameFragments)
	}
}

// Concat is the default [Composer], it concatenates the text form of every
// fragment into a single string.
type Concat struct{}

// NewAppender implements [Composer] for [Concat].
func (Concat) NewAppender(hint int) Appender {
	builder := &strings.Builder{}
	if hint > 0 {
		builder.Grow(hint * fragmentSize)
	}

	return &concatAppender{builder: builder}
}

// concatAppender is the [Appender] returned by [Concat].
type concatAppender struct {
	builder *strings.Builder
}

func (c *concatAppender) Append(fragment any) {
	c.builder.WriteString(Text(fragment))
}

func (c *concatAppender) Result() any {
	return c.builder.String()
}

// Fragments is a [Composer] whose appenders keep every fragment as is, the
// result is a []any in append order.
type Fragments struct{}

// NewAppender implements [Composer] for [Fragments].
func (Fragments) NewAppender(hint int) Appender {
	return &fragmentAppender{fragments: make([]any, 0, max(hint, 0))}
}

// fragmentAppender is the [Appender] returned by [Fragments].
type fragmentAppender struct {
	fragments []any
}

func (f *fragmentAppender) Append(fragment any) {
	f.fragments = append(f.fragments, fragment)
}

func (f *fragmentAppender) Result() any {
	return f.fragments
}
