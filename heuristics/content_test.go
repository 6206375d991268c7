package heuristics

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlfeatures/features"
	"urlfeatures/probe"
)

// staticPages serves the same markup for every URL. An empty page stands for
// an unreachable one.
type staticPages string

func (p staticPages) Fetch(context.Context, string) *goquery.Document {
	if len(p) == 0 {
		return nil
	}

	doc, err := probe.ParseDocument(strings.NewReader(string(p)))
	if err != nil {
		return nil
	}

	return doc
}

func body(markup string) staticPages {
	return staticPages("<html><head></head><body>" + markup + "</body></html>")
}

func TestAnchorShare(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		pages    staticPages
		expected features.Value
	}{
		// html, head and body count when they are written out
		{uc: "few anchors", pages: body(strings.Repeat("<a></a>", 2) + strings.Repeat("<p></p>", 5)), expected: features.Legitimate},
		{uc: "some anchors", pages: body(strings.Repeat("<a></a>", 3) + strings.Repeat("<p></p>", 2)), expected: features.Suspicious},
		{uc: "mostly anchors", pages: body(strings.Repeat("<a></a>", 8)), expected: features.Phishing},
		{uc: "fragment without implied elements", pages: staticPages("<a></a><p></p><p></p>"), expected: features.Suspicious},
		{uc: "unreachable page", pages: "", expected: features.Suspicious},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			value, err := anchorShare{pages: tc.pages}.Evaluate(context.Background(), "http://example.com/")

			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestLinkTagShare(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		pages    staticPages
		expected features.Value
	}{
		{uc: "no link tags", pages: body(strings.Repeat("<p></p>", 9)), expected: features.Legitimate},
		{
			uc:       "half link tags",
			pages:    staticPages(`<html><head><meta charset="utf-8"><script></script><link rel="icon"></head><body></body></html>`),
			expected: features.Suspicious,
		},
		{
			uc:       "nothing but link tags",
			pages:    staticPages("<html><head>" + strings.Repeat("<meta>", 20) + "</head><body></body></html>"),
			expected: features.Phishing,
		},
		{uc: "fragment without implied elements", pages: staticPages("<meta><script></script>"), expected: features.Phishing},
		{uc: "unreachable page", pages: "", expected: features.Suspicious},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			value, err := linkTagShare{pages: tc.pages}.Evaluate(context.Background(), "http://example.com/")

			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestServerFormHandler(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		pages    staticPages
		expected features.Value
	}{
		{uc: "no forms", pages: body("<p>hello</p>"), expected: features.Legitimate},
		{uc: "relative action", pages: body(`<form action="/submit"></form>`), expected: features.Legitimate},
		{uc: "same host in other case", pages: body(`<form action="https://EXAMPLE.com/submit"></form>`), expected: features.Legitimate},
		{uc: "missing action", pages: body(`<form></form>`), expected: features.Phishing},
		{uc: "blank action", pages: body(`<form action="  "></form>`), expected: features.Phishing},
		{uc: "about blank action", pages: body(`<form action="about:blank"></form>`), expected: features.Phishing},
		{uc: "foreign host", pages: body(`<form action="https://collector.example.net/post"></form>`), expected: features.Suspicious},
		{
			uc:       "first offending form decides",
			pages:    body(`<form action="/ok"></form><form action="https://collector.example.net/"></form><form></form>`),
			expected: features.Suspicious,
		},
		{uc: "unreachable page", pages: "", expected: features.Phishing},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			value, err := serverFormHandler{pages: tc.pages}.Evaluate(context.Background(), "http://example.com/login")

			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}
