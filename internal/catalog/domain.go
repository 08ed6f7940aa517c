// Package catalog maintains the product list shown by the storefront:
// supplier views, deduplication, pagination and deep-link lookup.
package catalog

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Cristian668/VentaX/internal/pricing"
)

// Supplier distinguishes the store's own catalog from consolidated
// third-party listings. Resolved once at the API boundary.
type Supplier int

const (
	// SupplierFirstParty is the store's own catalog ("Cristy" upstream).
	SupplierFirstParty Supplier = iota
	// SupplierThirdParty covers every other vendor ("others" upstream).
	SupplierThirdParty
)

const firstPartyCode = "Cristy"

// SupplierFromCode maps an upstream codigo_proveedor to a Supplier.
func SupplierFromCode(code string) Supplier {
	if strings.EqualFold(strings.TrimSpace(code), firstPartyCode) {
		return SupplierFirstParty
	}
	return SupplierThirdParty
}

// FilterParam returns the upstream query value for this supplier view.
func (s Supplier) FilterParam() string {
	if s == SupplierFirstParty {
		return firstPartyCode
	}
	return "others"
}

func (s Supplier) String() string {
	if s == SupplierFirstParty {
		return "first-party"
	}
	return "third-party"
}

// ID is a product identifier. Upstream serialises ids inconsistently
// (numbers for legacy rows, strings for synced ones), so it decodes both.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Product is a storefront product record as returned by the upstream API.
type Product struct {
	ID             ID      `json:"id"`
	ProductCode    string  `json:"product_code,omitempty"`
	Name           string  `json:"name,omitempty"`
	Price          float64 `json:"price,omitempty"`
	WholesalePrice float64 `json:"wholesale_price,omitempty"`
	BulkPrice      float64 `json:"bulk_price,omitempty"`
	ImagePath      string  `json:"image_path,omitempty"`
	SupplierCode   string  `json:"codigo_proveedor,omitempty"`
}

// Supplier resolves the product's supplier kind.
func (p Product) Supplier() Supplier {
	return SupplierFromCode(p.SupplierCode)
}

// Tiers exposes the product's price points to the pricing resolver.
func (p Product) Tiers() pricing.Tiers {
	return pricing.Tiers{Unit: p.Price, Wholesale: p.WholesalePrice, Bulk: p.BulkPrice}
}

// HasUsableImage reports whether the record carries a real image path
// (inline data URIs are placeholders, not images).
func (p Product) HasUsableImage() bool {
	path := strings.TrimSpace(p.ImagePath)
	return path != "" && !strings.Contains(path, "data:image")
}

// Key returns the product's dedupe key: the normalized product code, or the
// normalized id when no code is present.
func (p Product) Key() string {
	if code := strings.TrimSpace(p.ProductCode); code != "" {
		return NormalizeKey(code)
	}
	return NormalizeKey(string(p.ID))
}

// Multi-supplier syncs tag variants of the same product with a trailing
// ._AI suffix, sometimes OCR-mangled to ._Al.
var variantSuffix = regexp.MustCompile(`(?i)\._a[il]\s*$`)

// NormalizeKey trims the token, strips a trailing ._AI/._Al variant suffix
// and lowercases, so code variants of one product collapse to a single key.
func NormalizeKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	norm := strings.TrimSpace(variantSuffix.ReplaceAllString(trimmed, ""))
	if norm == "" {
		return strings.ToLower(trimmed)
	}
	return strings.ToLower(norm)
}

// Dedupe removes products whose normalized keys collide, keeping the first
// occurrence. Records without a key survive untouched. Idempotent.
func Dedupe(list []Product) []Product {
	seen := make(map[string]struct{}, len(list))
	out := make([]Product, 0, len(list))
	for _, p := range list {
		key := p.Key()
		if key == "" {
			out = append(out, p)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FindByIDOrCode resolves a deep-link token against the list: exact id or
// product_code match first, then normalized-key match so ._AI/._Al variants
// are treated as the same product. Returns the index, or -1.
func FindByIDOrCode(list []Product, token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return -1
	}
	for i, p := range list {
		if string(p.ID) == token || (p.ProductCode != "" && p.ProductCode == token) {
			return i
		}
	}
	norm := NormalizeKey(token)
	for i, p := range list {
		if NormalizeKey(string(p.ID)) == norm || NormalizeKey(p.ProductCode) == norm {
			return i
		}
	}
	return -1
}

// Paginate slices the list to the first visibleCount items and reports
// whether more remain.
func Paginate(list []Product, visibleCount int) ([]Product, bool) {
	if visibleCount < 0 {
		visibleCount = 0
	}
	if visibleCount >= len(list) {
		return list, false
	}
	return list[:visibleCount], true
}
