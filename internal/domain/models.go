package domain

import (
	"sort"
	"strings"
)

// Domain contains the catalog models shared by sync and publishers.

// Product is the subset of a Knawat catalog product the sync pass reads.
// Name and Description are keyed by language code (en, ar, tr, ...).
type Product struct {
	SKU         string            `json:"sku"`
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	Images      []string          `json:"images"`
	Updated     string            `json:"updated"`
	Variations  []Variation       `json:"variations"`
}

// Variation is a sellable variant of a product.
type Variation struct {
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"sale_price"`
}

// ProductSummary is the flattened product carried in published events.
type ProductSummary struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url,omitempty"`
	Images      int      `json:"images"`
	Variations  int      `json:"variations"`
	Quantity    int      `json:"quantity"`
	Updated     string   `json:"updated"`
	Languages   []string `json:"languages,omitempty"`
}

// VersionKey identifies one revision of a product.
func (p Product) VersionKey() string {
	return strings.TrimSpace(p.SKU) + "@" + strings.TrimSpace(p.Updated)
}

// Localized returns the value for lang, falling back to English and then to the
// first non-empty value in language-code order.
func Localized(values map[string]string, lang string) string {
	if v := strings.TrimSpace(values[lang]); v != "" {
		return v
	}
	if v := strings.TrimSpace(values["en"]); v != "" {
		return v
	}
	langs := make([]string, 0, len(values))
	for k := range values {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	for _, k := range langs {
		if v := strings.TrimSpace(values[k]); v != "" {
			return v
		}
	}
	return ""
}
