package csvscanner

import "testing"

func scanAll(input string, opts Options) []string {
	s := New(input, opts)
	var values []string
	for s.Scan() {
		values = append(values, s.Value())
	}
	return values
}

func assertColumns(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("column count = %d (%q), want %d (%q)", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanDefaults(t *testing.T) {
	assertColumns(t,
		scanAll("foo bar baz tik tak toe", Options{}),
		[]string{"foo", "bar", "baz", "tik", "tak", "toe"})
}

func TestScanEmptyInput(t *testing.T) {
	if got := scanAll("", Options{}); got != nil {
		t.Fatalf("empty input yielded %q", got)
	}
}

func TestScanMultipleDelimiters(t *testing.T) {
	assertColumns(t,
		scanAll("foo bar+baz;tik|tak:toe", Options{Delimiters: " +;"}),
		[]string{"foo", "bar", "baz", "tik|tak:toe"})
}

func TestScanAdjacentDelimitersYieldEmptyColumns(t *testing.T) {
	assertColumns(t,
		scanAll("a,,b", Options{Delimiters: ","}),
		[]string{"a", "", "b"})
}

func TestScanQuotedSections(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dialect Dialect
		want    []string
	}{
		{
			"escape none keeps backslashes",
			`"PTHREAD \"support initialized"`,
			DialectEscapeNone,
			[]string{`PTHREAD \support`, `initialized"`},
		},
		{
			"escape backslash",
			`"PTHREAD \"support initialized"`,
			DialectEscapeBackslash,
			[]string{`PTHREAD "support initialized`},
		},
		{
			"escape double char",
			`"say ""hi"" now" rest`,
			DialectEscapeDoubleChar,
			[]string{`say "hi" now`, "rest"},
		},
		{
			"single quotes work too",
			`'one two' three`,
			DialectEscapeNone,
			[]string{"one two", "three"},
		},
		{
			"quote mid-token is literal",
			`foo"bar baz`,
			DialectEscapeNone,
			[]string{`foo"bar`, "baz"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertColumns(t, scanAll(tt.input, Options{Dialect: tt.dialect}), tt.want)
		})
	}
}

func TestScanExpectedColumns(t *testing.T) {
	t.Run("extra columns dropped", func(t *testing.T) {
		assertColumns(t,
			scanAll("foo bar baz more columns", Options{ExpectedColumns: 3}),
			[]string{"foo", "bar", "baz"})
	})

	t.Run("greedy tail", func(t *testing.T) {
		assertColumns(t,
			scanAll("foo bar baz tik tak toe", Options{ExpectedColumns: 4, Greedy: true}),
			[]string{"foo", "bar", "baz", "tik tak toe"})
	})

	t.Run("non-greedy last column", func(t *testing.T) {
		assertColumns(t,
			scanAll("foo bar baz tik tak toe", Options{ExpectedColumns: 4}),
			[]string{"foo", "bar", "baz", "tik"})
	})
}

func TestScanStripWhitespace(t *testing.T) {
	assertColumns(t,
		scanAll("  foo ,    bar  , baz   ,    tik tak toe", Options{
			Delimiters:      ",",
			StripWhitespace: true,
		}),
		[]string{"foo", "bar", "baz", "tik tak toe"})
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name string
		want Dialect
		ok   bool
	}{
		{"CSV_SCANNER_ESCAPE_NONE", DialectEscapeNone, true},
		{"CSV_SCANNER_ESCAPE_BACKSLASH", DialectEscapeBackslash, true},
		{"CSV_SCANNER_ESCAPE_DOUBLE_CHAR", DialectEscapeDoubleChar, true},
		{"CSV_SCANNER_NO_SUCH_DIALECT", DialectEscapeNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseDialect(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDialect(%q) = %v/%v, want %v/%v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
