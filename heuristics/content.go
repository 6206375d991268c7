package heuristics

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"urlfeatures/features"
	"urlfeatures/probe"
)

// countElements counts the elements present in the markup. The html, head
// and body elements the parser adds on its own are left out.
func countElements(doc *goquery.Document) int {
	return doc.Find("*").Not("[" + probe.ImpliedAttr + "]").Length()
}

// anchorShare relates the number of anchors to the number of all elements of
// the page. A page that cannot be loaded is ambiguous.
type anchorShare struct {
	pages PageFetcher
}

func (r anchorShare) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	doc := r.pages.Fetch(ctx, rawURL)
	if doc == nil {
		return features.Suspicious, nil
	}

	total := countElements(doc)
	if total == 0 {
		return features.Suspicious, nil
	}

	switch share := percentage(doc.Find("a").Length(), total); {
	case share < 31: // nolint: mnd
		return features.Legitimate, nil
	case share <= 67: // nolint: mnd
		return features.Suspicious, nil
	default:
		return features.Phishing, nil
	}
}

// linkTagShare relates the number of meta, script and link elements to the
// number of all elements of the page.
type linkTagShare struct {
	pages PageFetcher
}

func (r linkTagShare) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	doc := r.pages.Fetch(ctx, rawURL)
	if doc == nil {
		return features.Suspicious, nil
	}

	total := countElements(doc)
	if total == 0 {
		return features.Suspicious, nil
	}

	switch share := percentage(doc.Find("meta, script, link").Length(), total); {
	case share < 17: // nolint: mnd
		return features.Legitimate, nil
	case share <= 81: // nolint: mnd
		return features.Suspicious, nil
	default:
		return features.Phishing, nil
	}
}

// serverFormHandler inspects where the forms of a page submit to. Forms
// without a target are phishing, forms posting to a foreign host suspicious.
// A page that cannot be loaded counts as phishing.
type serverFormHandler struct {
	pages PageFetcher
}

func (r serverFormHandler) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	base, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	doc := r.pages.Fetch(ctx, rawURL)
	if doc == nil {
		return features.Phishing, nil
	}

	var (
		result  = features.Legitimate
		evalErr error
	)

	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		action := strings.TrimSpace(form.AttrOr("action", ""))
		if len(action) == 0 || action == "about:blank" {
			result = features.Phishing

			return false
		}

		target, err := base.Parse(action)
		if err != nil {
			result, evalErr = features.Phishing, err

			return false
		}

		if !strings.EqualFold(authority(target), authority(base)) {
			result = features.Suspicious

			return false
		}

		return true
	})

	return result, evalErr
}
