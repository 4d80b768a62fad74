package catalog

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/knawat/mp-go/internal/domain"
)

const maxDescriptionRunes = 2000

// Summarize flattens a product for publishing, reading text in lang.
func Summarize(p domain.Product, lang string) domain.ProductSummary {
	summary := domain.ProductSummary{
		SKU:         strings.TrimSpace(p.SKU),
		Name:        domain.Localized(p.Name, lang),
		Description: truncateRunes(PlainText(domain.Localized(p.Description, lang)), maxDescriptionRunes),
		Images:      len(p.Images),
		Variations:  len(p.Variations),
		Updated:     strings.TrimSpace(p.Updated),
		Languages:   languages(p.Name),
	}
	if len(p.Images) > 0 {
		summary.ImageURL = strings.TrimSpace(p.Images[0])
	}
	for _, v := range p.Variations {
		summary.Quantity += v.Quantity
	}
	return summary
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Input that fails to parse is returned trimmed.
func PlainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func languages(values map[string]string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for lang, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}
