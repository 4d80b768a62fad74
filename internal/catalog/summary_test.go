package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knawat/mp-go/internal/catalog"
	"github.com/knawat/mp-go/internal/domain"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain text", in: "  Soft   cotton ", want: "Soft cotton"},
		{name: "paragraphs", in: "<p>Soft</p><p>cotton</p>", want: "Soft cotton"},
		{name: "line breaks", in: "Soft<br>cotton<br/>shirt", want: "Soft cotton shirt"},
		{name: "entities", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "script removed", in: "<div>Hat<script>alert(1)</script></div>", want: "Hat"},
		{name: "list", in: "<ul><li>S</li><li>M</li></ul>", want: "S M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, catalog.PlainText(tt.in))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	p := domain.Product{
		SKU:         " A-1 ",
		Name:        map[string]string{"en": "Shirt", "tr": "Gomlek", "ar": ""},
		Description: map[string]string{"tr": "<b>Pamuk</b>"},
		Images:      []string{"one.jpg", "two.jpg"},
		Updated:     "2020-01-01",
		Variations:  []domain.Variation{{Quantity: 1}, {Quantity: 4}},
	}

	got := catalog.Summarize(p, "tr")
	assert.Equal(t, domain.ProductSummary{
		SKU:         "A-1",
		Name:        "Gomlek",
		Description: "Pamuk",
		ImageURL:    "one.jpg",
		Images:      2,
		Variations:  2,
		Quantity:    5,
		Updated:     "2020-01-01",
		Languages:   []string{"en", "tr"},
	}, got)

	fallback := catalog.Summarize(p, "de")
	assert.Equal(t, "Shirt", fallback.Name)
	assert.Equal(t, "Pamuk", fallback.Description)
}

func TestSummarizeTruncatesLongDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ş", 2500)
	got := catalog.Summarize(domain.Product{SKU: "X", Description: map[string]string{"en": long}}, "en")
	assert.Equal(t, 2000, len([]rune(got.Description)))
}
