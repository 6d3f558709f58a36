package highlight

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	assert.Equal(t, "JSON", Lexer(`{"error": "no such table"}`).Config().Name)
	assert.Equal(t, "SQL", Lexer("select * from nope").Config().Name)
}

func TestBody_KeepsText(t *testing.T) {
	body := `{"error": "no such column: nme"}`
	assert.Equal(t, body, strings.TrimRight(ansi.Strip(Body(body)), "\n"))
}

func TestWithLineNumbers(t *testing.T) {
	got := WithLineNumbers("a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n")
	assert.Contains(t, got, " 1 │ a\n")
	assert.Contains(t, got, "10 │ j")
	assert.NotContains(t, got, "11 │")

	assert.Equal(t, "1 │ only", WithLineNumbers("only"))
}
