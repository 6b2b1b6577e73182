package fern

import (
	"fmt"
	"strings"
)

// Token is the source position and text the parser attaches to every AST
// node. The checker reports errors against it; nothing else in this package
// interprets it.
type Token struct {
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Col)
}

// Unescape resolves the escape sequences of a string literal. Unknown
// escapes keep the backslash, matching the scanner's behavior.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\'', '"', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Escape is the inverse of Unescape, used by the dot dump where labels must
// stay printable.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case 0:
			b.WriteString("\\0")
		case '\'', '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
