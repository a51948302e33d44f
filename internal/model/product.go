package model

import "github.com/shopspring/decimal"

// Product represents a vegetable in the catalogue.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Names         map[string]string `json:"names,omitempty"`
	Category      string            `json:"category"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice decimal.Decimal   `json:"originalPrice"`
	Stock         int               `json:"stock"`
	Image         string            `json:"image,omitempty"`
	TodaysOffer   bool              `json:"todaysOffer"`
}

// LocalizedName returns the product name for lang, falling back to English.
func (p Product) LocalizedName(lang string) string {
	if lang == "" || lang == "en" {
		return p.Name
	}
	if name, ok := p.Names[lang]; ok && name != "" {
		return name
	}
	return p.Name
}
