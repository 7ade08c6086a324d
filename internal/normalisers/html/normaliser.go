package html

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Normaliser turns a fetched web page into a single document.
type Normaliser struct{}

func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts a page body into a document whose provenance is pageURL.
// The page title, when present, is recorded under domain.MetaTitle.
func (n *Normaliser) Normalise(ctx context.Context, pageURL string, body []byte) (*domain.Document, error) {
	if pageURL == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title, text := extract(body)
	meta := map[string]string{domain.MetaSource: pageURL}
	if title != "" {
		meta[domain.MetaTitle] = title
	}

	return &domain.Document{
		ID:       uuid.New().String(),
		Content:  text,
		Metadata: meta,
	}, nil
}

// hidden elements contribute no text, nor do their descendants.
var hidden = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
}

// blocks start and end on their own line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Nav: true, atom.Main: true, atom.Aside: true, atom.Figcaption: true,
}

// extract returns the page title and its readable text, one block per line.
// The tokenizer decodes entities and tolerates malformed markup.
func extract(body []byte) (title, text string) {
	z := html.NewTokenizer(bytes.NewReader(body))

	var out, titleText strings.Builder
	// depth counts open hidden elements. Only the first title is kept.
	depth := 0
	inTitle, sawTitle := false, false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(strings.Fields(titleText.String()), " "), tidy(out.String())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case hidden[a]:
				if tt == html.StartTagToken {
					depth++
				}
			case a == atom.Title && depth == 0:
				inTitle = tt == html.StartTagToken
			case blocks[a]:
				out.WriteByte('\n')
			case a == atom.Td || a == atom.Th:
				out.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case hidden[a]:
				if depth > 0 {
					depth--
				}
			case a == atom.Title && inTitle:
				inTitle = false
				sawTitle = true
			case blocks[a]:
				out.WriteByte('\n')
			}

		case html.TextToken:
			switch {
			case depth > 0:
			case inTitle:
				if !sawTitle {
					titleText.Write(z.Text())
				}
			default:
				out.Write(z.Text())
			}
		}
	}
}

// tidy collapses runs of spaces and drops blank lines.
func tidy(s string) string {
	var lines []string
	for line := range strings.Lines(s) {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
