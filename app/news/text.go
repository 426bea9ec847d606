package news

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// CleanText strips markup, applies NFKC normalization and collapses runs of
// whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
		if err == nil {
			s = doc.Text()
		}
	}

	s = norm.NFKC.String(s)

	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Prefix is used in log lines to identify an item without dumping its title.
func Prefix(s string) string {
	if utf8.RuneCountInString(s) <= 50 {
		return s
	}
	return Truncate(s, 50) + "..."
}
