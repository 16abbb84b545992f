// Package csvscanner tokenizes delimiter-separated text the way the log
// pipeline's CSV parser does: single-byte delimiters, optional quoting
// with per-dialect escaping, greedy tail capture and whitespace stripping.
package csvscanner

import "strings"

// Dialect selects how quoted sections treat escape sequences.
type Dialect int

const (
	// DialectEscapeNone treats quotes as plain section markers with no
	// escape character.
	DialectEscapeNone Dialect = iota
	// DialectEscapeBackslash lets a backslash escape the next character
	// inside a quoted section.
	DialectEscapeBackslash
	// DialectEscapeDoubleChar reads a doubled quote inside a quoted
	// section as one literal quote.
	DialectEscapeDoubleChar
)

// ParseDialect resolves the configuration-side dialect names.
func ParseDialect(name string) (Dialect, bool) {
	switch name {
	case "CSV_SCANNER_ESCAPE_NONE":
		return DialectEscapeNone, true
	case "CSV_SCANNER_ESCAPE_BACKSLASH":
		return DialectEscapeBackslash, true
	case "CSV_SCANNER_ESCAPE_DOUBLE_CHAR":
		return DialectEscapeDoubleChar, true
	}
	return DialectEscapeNone, false
}

// DefaultDelimiters is the delimiter set used when none is configured.
const DefaultDelimiters = " "

const quoteChars = `"'`
const stripChars = " \t"

// Options configures one scan run.
type Options struct {
	// Delimiters is the set of single-byte separators; empty selects
	// DefaultDelimiters.
	Delimiters string
	Dialect    Dialect
	// Greedy makes the last expected column swallow the rest of the
	// input verbatim. Only meaningful with ExpectedColumns set.
	Greedy bool
	// StripWhitespace trims spaces and tabs around each value.
	StripWhitespace bool
	// ExpectedColumns caps the number of produced columns; zero means
	// unbounded.
	ExpectedColumns int
}

// Scanner walks one input string and yields its columns.
type Scanner struct {
	input  string
	pos    int
	column int
	value  string
	opts   Options
}

// New returns a scanner over input.
func New(input string, opts Options) *Scanner {
	if opts.Delimiters == "" {
		opts.Delimiters = DefaultDelimiters
	}
	return &Scanner{input: input, opts: opts}
}

// Value returns the column produced by the last successful Scan.
func (s *Scanner) Value() string {
	return s.value
}

// Scan advances to the next column. It reports false when the input or the
// expected column count is exhausted.
func (s *Scanner) Scan() bool {
	if s.opts.ExpectedColumns > 0 {
		if s.column >= s.opts.ExpectedColumns {
			return false
		}
		if s.opts.Greedy && s.column == s.opts.ExpectedColumns-1 {
			return s.scanGreedyTail()
		}
	}

	if s.pos >= len(s.input) {
		return false
	}

	var value strings.Builder
	if s.opts.StripWhitespace {
		s.skipStripped()
	}

	if s.pos < len(s.input) && strings.IndexByte(quoteChars, s.input[s.pos]) >= 0 {
		s.scanQuotedSection(&value)
	}
	// unquoted remainder of the token, up to the next delimiter
	for s.pos < len(s.input) && !s.atDelimiter() {
		value.WriteByte(s.input[s.pos])
		s.pos++
	}
	if s.pos < len(s.input) {
		s.pos++ // consume the delimiter
	}

	s.value = value.String()
	if s.opts.StripWhitespace {
		s.value = strings.Trim(s.value, stripChars)
	}
	s.column++
	return true
}

func (s *Scanner) scanGreedyTail() bool {
	if s.pos >= len(s.input) {
		return false
	}
	s.value = s.input[s.pos:]
	if s.opts.StripWhitespace {
		s.value = strings.Trim(s.value, stripChars)
	}
	s.pos = len(s.input)
	s.column++
	return true
}

func (s *Scanner) scanQuotedSection(value *strings.Builder) {
	quote := s.input[s.pos]
	s.pos++
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch {
		case s.opts.Dialect == DialectEscapeBackslash && c == '\\' && s.pos+1 < len(s.input):
			value.WriteByte(s.input[s.pos+1])
			s.pos += 2
		case s.opts.Dialect == DialectEscapeDoubleChar && c == quote &&
			s.pos+1 < len(s.input) && s.input[s.pos+1] == quote:
			value.WriteByte(quote)
			s.pos += 2
		case c == quote:
			s.pos++
			return
		default:
			value.WriteByte(c)
			s.pos++
		}
	}
}

func (s *Scanner) skipStripped() {
	for s.pos < len(s.input) &&
		strings.IndexByte(stripChars, s.input[s.pos]) >= 0 &&
		!s.atDelimiter() {
		s.pos++
	}
}

func (s *Scanner) atDelimiter() bool {
	return strings.IndexByte(s.opts.Delimiters, s.input[s.pos]) >= 0
}
