package calllog

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markup matches a tag or a character reference. A bare "<" or "&" in prose
// does not.
var markup = regexp.MustCompile(`</?[a-zA-Z][\w:-]*(\s[^<>]*)?/?>|&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z]+);`)

// PlainText strips SSML/HTML markup that assistant replies often carry so
// previews read as plain sentences. Text without markup only has its
// whitespace collapsed.
func PlainText(s string) string {
	if !markup.MatchString(s) {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
