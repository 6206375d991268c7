package probe

import (
	"bytes"
	"io"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// ImpliedAttr marks the html, head and body elements the HTML parser inserts
// although the markup does not contain them.
const ImpliedAttr = "data-urlfeatures-implied"

// nolint: gochecknoglobals
var structuralTags = map[string]*regexp.Regexp{
	"html": regexp.MustCompile(`(?i)<html[\s/>]`),
	"head": regexp.MustCompile(`(?i)<head[\s/>]`),
	"body": regexp.MustCompile(`(?i)<body[\s/>]`),
}

// ParseDocument parses HTML markup and flags the structural elements missing
// from the source with ImpliedAttr, so element counts reflect what the page
// actually contains.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	for tag, pattern := range structuralTags {
		if !pattern.Match(raw) {
			doc.Find(tag).SetAttr(ImpliedAttr, "")
		}
	}

	return doc, nil
}
