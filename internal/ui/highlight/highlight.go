// Package highlight colors error bodies returned by the server
package highlight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Style is the chroma style used for error bodies
const Style = "nord"

// Lexer picks a lexer for body: JSON when it parses as JSON, otherwise SQL,
// since most query errors quote the failing statement
func Lexer(body string) chroma.Lexer {
	name := "sql"
	if json.Valid([]byte(strings.TrimSpace(body))) {
		name = "json"
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Body highlights body for a 256 color terminal. On failure the plain text
// is returned.
func Body(body string) string {
	lexer := Lexer(body)

	style := styles.Get(Style)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, body)
	if err != nil {
		return body
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return body
	}
	return b.String()
}

// WithLineNumbers prefixes each line with a right-aligned line number
func WithLineNumbers(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d │ %s", width, i+1, line)
	}
	return b.String()
}
