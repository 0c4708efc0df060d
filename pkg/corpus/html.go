package corpus

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLText returns the visible text of an HTML document with runs of
// whitespace collapsed to a single space. Script, style and noscript elements
// are dropped.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// FromHTML is HTMLText returned as a corpus reader.
func FromHTML(r io.Reader) (*strings.Reader, error) {
	text, err := HTMLText(r)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(text), nil
}
