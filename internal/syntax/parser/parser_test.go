package parser_test

import (
	"flag"
	"reflect"
	"strings"
	"testing"

	"go.followtheprocess.codes/liquid/internal/lookup"
	"go.followtheprocess.codes/liquid/internal/render"
	"go.followtheprocess.codes/liquid/internal/syntax/parser"
	"go.followtheprocess.codes/test"
	"go.uber.org/goleak"
)

var _ = flag.Bool("update", false, "Update testdata")

// deepEqual adapts [reflect.DeepEqual] for use with test.EqualFunc.
func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string       // Name of the test case
		src  string       // Template source
		want render.Block // Expected nodes
	}{
		{
			name: "empty",
			src:  "",
			want: nil,
		},
		{
			name: "text",
			src:  "Hello",
			want: render.Block{render.Text("Hello")},
		},
		{
			name: "output",
			src:  "Hi {{ name }}!",
			want: render.Block{
				render.Text("Hi "),
				render.Output{Expr: lookup.NewReference("name")},
				render.Text("!"),
			},
		},
		{
			name: "empty output",
			src:  "{{ }}",
			want: render.Block{render.Output{Expr: lookup.Literal{}}},
		},
		{
			name: "literals",
			src:  "{{ 'a' }}{{ 1 }}{{ 2.5 }}{{ true }}{{ nil }}",
			want: render.Block{
				render.Output{Expr: lookup.Literal{Value: "a", Text: "'a'"}},
				render.Output{Expr: lookup.Literal{Value: 1, Text: "1"}},
				render.Output{Expr: lookup.Literal{Value: 2.5, Text: "2.5"}},
				render.Output{Expr: lookup.Literal{Value: true, Text: "true"}},
				render.Output{Expr: lookup.Literal{Value: nil, Text: "nil"}},
			},
		},
		{
			name: "path",
			src:  "{{ user.addresses[0].city }}",
			want: render.Block{
				render.Output{Expr: lookup.NewReference(
					"user",
					lookup.Property{Name: "addresses"},
					lookup.Subscript{Key: lookup.Literal{Value: 0, Text: "0"}},
					lookup.Property{Name: "city"},
				)},
			},
		},
		{
			name: "keyword as property",
			src:  "{{ page.limit }}",
			want: render.Block{
				render.Output{Expr: lookup.NewReference("page", lookup.Property{Name: "limit"})},
			},
		},
		{
			name: "indirect",
			src:  "{{ @key }}{{ [other] }}{{ ['my var'] }}",
			want: render.Block{
				render.Output{Expr: lookup.Reference{Root: lookup.Root{Name: "key", Indirect: true}}},
				render.Output{Expr: lookup.Reference{Root: lookup.Root{Name: "other", Indirect: true}}},
				render.Output{Expr: lookup.Reference{Root: lookup.Root{Name: "my var"}}},
			},
		},
		{
			name: "assign",
			src:  "{% assign x = 'y' %}",
			want: render.Block{
				render.Assign{Name: "x", Expr: lookup.Literal{Value: "y", Text: "'y'"}},
			},
		},
		{
			name: "capture",
			src:  "{% capture greeting %}Hi {{ name }}{% endcapture %}",
			want: render.Block{
				render.Capture{
					Name: "greeting",
					Body: render.Block{
						render.Text("Hi "),
						render.Output{Expr: lookup.NewReference("name")},
					},
				},
			},
		},
		{
			name: "for",
			src:  "{% for x in xs reversed limit:2 offset:continue %}{{ x }}{% else %}none{% endfor %}",
			want: render.Block{
				render.For{
					Var:            "x",
					Collection:     lookup.NewReference("xs"),
					Limit:          lookup.Literal{Value: 2, Text: "2"},
					OffsetContinue: true,
					Reversed:       true,
					Body:           render.Block{render.Output{Expr: lookup.NewReference("x")}},
					Else:           render.Block{render.Text("none")},
				},
			},
		},
		{
			name: "for offset expression",
			src:  "{% for x in xs offset: n %}{% endfor %}",
			want: render.Block{
				render.For{
					Var:        "x",
					Collection: lookup.NewReference("xs"),
					Offset:     lookup.NewReference("n"),
				},
			},
		},
		{
			name: "cycle",
			src:  "{% cycle 'a', 'b' %}{% cycle group: 1, 2 %}",
			want: render.Block{
				render.Cycle{Values: []lookup.Expression{
					lookup.Literal{Value: "a", Text: "'a'"},
					lookup.Literal{Value: "b", Text: "'b'"},
				}},
				render.Cycle{
					Group: lookup.NewReference("group"),
					Values: []lookup.Expression{
						lookup.Literal{Value: 1, Text: "1"},
						lookup.Literal{Value: 2, Text: "2"},
					},
				},
			},
		},
		{
			name: "ifchanged",
			src:  "{% ifchanged %}{{ x }}{% endifchanged %}",
			want: render.Block{
				render.IfChanged{Body: render.Block{render.Output{Expr: lookup.NewReference("x")}}},
			},
		},
		{
			name: "whitespace control",
			src:  "a  \n {{- x -}} \n b {%- assign y = 1 -%}\n c",
			want: render.Block{
				render.Text("a"),
				render.Output{Expr: lookup.NewReference("x")},
				render.Text("b"),
				render.Assign{Name: "y", Expr: lookup.Literal{Value: 1, Text: "1"}},
				render.Text("c"),
			},
		},
		{
			name: "whitespace control removes blank text",
			src:  "{% for x in xs -%}\n  {{ x }}\n{%- endfor %}",
			want: render.Block{
				render.For{
					Var:        "x",
					Collection: lookup.NewReference("xs"),
					Body:       render.Block{render.Output{Expr: lookup.NewReference("x")}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			p := parser.New("test.liquid", []byte(tt.src))

			got, err := p.Parse()
			test.Ok(t, err)
			test.Equal(t, len(p.Diagnostics()), 0)

			test.EqualFunc(t, got, tt.want, deepEqual)
		})
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string // Name of the test case
		src  string // Template source
		want string // Expected diagnostics, one per line
	}{
		{
			name: "unterminated for",
			src:  "{% for x in items %}{{ x }}",
			want: "test.liquid:1:28: unexpected end of input, expected one of [Else EndFor]\n",
		},
		{
			name: "unknown tag",
			src:  "{% unknown %}",
			want: "test.liquid:1:4-11: unknown tag \"unknown\"\n",
		},
		{
			name: "trailing dot",
			src:  "{{ a. }}",
			want: "test.liquid:1:5-6: expected Ident, got CloseOutput\n",
		},
		{
			name: "assign missing equals",
			src:  "{% assign x 1 %}",
			want: "test.liquid:1:11-12: expected Eq, got Number\n",
		},
		{
			name: "recovers and reports every error",
			src:  "{% nope %}\n{{ a. }}\n{{ ok }}",
			want: "test.liquid:1:4-8: unknown tag \"nope\"\n" +
				"test.liquid:2:5-6: expected Ident, got CloseOutput\n",
		},
		{
			name: "scanner error",
			src:  "{{ a + b }}",
			want: "test.liquid:1:6-7: unexpected character: '+'\n",
		},
		{
			name: "limit without colon",
			src:  "{% for x in y limit 2 %}{% endfor %}",
			want: "test.liquid:1:15-20: expected Colon, got Number\n" +
				"test.liquid:1:28-34: unknown tag \"endfor\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			p := parser.New("test.liquid", []byte(tt.src))

			_, err := p.Parse()
			test.Err(t, err, test.Context("Parse() failed to return an error given invalid syntax"))

			var diagnostics strings.Builder
			for _, diag := range p.Diagnostics() {
				diagnostics.WriteString(diag.String())
			}

			test.Diff(t, diagnostics.String(), tt.want)
		})
	}
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name    string // Name of the test case
		src     string // Reference source
		want    string // Expected String() of the reference
		wantErr bool   // Whether it should return an error
	}{
		{name: "bare", src: "user", want: "user"},
		{name: "path", src: "user.addresses[0].city", want: "user.addresses[0].city"},
		{name: "negative", src: "list[-1]", want: "list[-1]"},
		{name: "quoted key", src: "m['k']", want: "m['k']"},
		{name: "variable key", src: "list[i]", want: "list[i]"},
		{name: "indirect", src: "@key.name", want: "@key.name"},
		{name: "bracket indirect", src: "[key]", want: "@key"},
		{name: "spaces", src: "  user . name  ", want: "user.name"},
		{name: "empty", src: "", wantErr: true},
		{name: "trailing dot", src: "user.", wantErr: true},
		{name: "two references", src: "a b", wantErr: true},
		{name: "literal", src: "'text'", wantErr: true},
		{name: "bad character", src: "a + b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			got, err := parser.ParseReference("expr", tt.src)
			test.WantErr(t, err, tt.wantErr)

			if err != nil {
				test.True(t, strings.Contains(err.Error(), parser.ErrParse.Error()))
				return
			}

			test.Equal(t, got.String(), tt.want)
		})
	}
}

func BenchmarkParser(b *testing.B) {
	src := []byte(strings.Repeat("Hello {{ user.name }}! {% for x in xs limit:3 %}{{ forloop.index }}: {{ x }}{% endfor %}\n", 50))

	for b.Loop() {
		p := parser.New("bench.liquid", src)

		_, err := p.Parse()
		test.Ok(b, err)
	}
}

func FuzzParser(f *testing.F) {
	corpus := []string{
		"",
		"Hello {{ name }}",
		"{% assign x = user.name %}{{ x }}",
		"{% for x in xs reversed limit:2 offset:continue %}{{ x }}{% else %}none{% endfor %}",
		"{% capture c %}{{ a[0] }}{% endcapture %}",
		"{% cycle 'g': 'a', 'b' %}",
		"{% ifchanged %}{{ x }}{% endifchanged %}",
		"{% for x in y",
		"{{ a. }}",
	}

	for _, item := range corpus {
		f.Add([]byte(item))
	}

	// Property: The parser never panics or loops indefinitely, fuzz by default
	// will catch both of these
	f.Fuzz(func(t *testing.T, src []byte) {
		p := parser.New("fuzz", src)

		_, err := p.Parse()
		if err != nil {
			test.True(t, len(p.Diagnostics()) > 0, test.Context("ErrParse with no diagnostics"))
		}
	})
}
