package localink

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TranslateFunc translates one leaf string. It is expected to be the chain's
// Translate already bound to a locale pair.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// skipTags contains HTML tags whose text content is never translated.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// TranslateFields translates the named fields with fn, preserving structure:
// list fields keep their order and length, bullet records keep their shape,
// and a single leaf's failure falls back to the original text for that leaf
// only. Fields missing from the map are skipped. The returned errors carry
// one TranslationFailedError per failed leaf; the result is always usable.
func TranslateFields(ctx context.Context, fields map[string]FieldValue, names []string, fn TranslateFunc) (map[string]FieldValue, []error) {
	out := make(map[string]FieldValue, len(fields))
	for name, v := range fields {
		out[name] = v.Clone()
	}

	var errs []error
	fail := func(field string, err error) {
		errs = append(errs, &TranslationFailedError{Field: field, Cause: err})
	}

	for _, name := range names {
		v, ok := out[name]
		if !ok {
			continue
		}

		switch v.Kind {
		case FieldText:
			if translated, err := fn(ctx, v.Text); err != nil {
				fail(name, err)
			} else {
				v.Text = translated
			}

		case FieldRichText:
			translated, err := translateHTML(ctx, v.Text, fn)
			if err != nil {
				fail(name, err)
			}
			// translateHTML degrades per text node; the result is usable
			// even when err is non-nil.
			v.Text = translated

		case FieldLines:
			for i, line := range v.Lines {
				if translated, err := fn(ctx, line); err != nil {
					fail(name, err)
				} else {
					v.Lines[i] = translated
				}
			}

		case FieldBullets:
			for i, b := range v.Bullets {
				if b.Title != "" {
					if translated, err := fn(ctx, b.Title); err != nil {
						fail(name, err)
					} else {
						v.Bullets[i].Title = translated
					}
				}
				if b.Description != "" {
					if translated, err := fn(ctx, b.Description); err != nil {
						fail(name, err)
					} else {
						v.Bullets[i].Description = translated
					}
				}
			}
		}

		out[name] = v
	}

	return out, errs
}

// translateHTML translates the text nodes of an HTML fragment in place,
// leaving markup, attributes and skipTags content untouched. A node whose
// translation fails keeps its original text; the first error is returned for
// reporting.
func translateHTML(ctx context.Context, fragment string, fn TranslateFunc) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment, err
	}

	var firstErr error
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			translated, terr := fn(ctx, n.Data)
			if terr != nil {
				if firstErr == nil {
					firstErr = terr
				}
			} else {
				n.Data = translated
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return fragment, firstErr
	}
	for _, node := range body.Nodes {
		walk(node)
	}

	out, herr := body.Html()
	if herr != nil {
		return fragment, herr
	}
	return out, firstErr
}
