package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ClearKeyword clears a description when sent instead of three descriptions.
const ClearKeyword = "borrar"

var priceRe = regexp.MustCompile(`^\s*(\d+)(?:[.,](\d+))?\s*€?\s*$`)

// ParsePrice normalizes admin price input: "2,50 €" becomes "2.50".
// The digits are kept as typed so trailing zeros survive.
func ParsePrice(text string) (string, error) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return "", ErrInvalidPrice
	}
	out := m[1]
	if m[2] != "" {
		out += "." + m[2]
	}
	d, err := decimal.NewFromString(out)
	if err != nil || d.IsNegative() {
		return "", ErrInvalidPrice
	}
	return out, nil
}

// ParseNames splits "es / en / ca" into three trimmed, non-empty names.
func ParseNames(text string) (Triple, error) {
	t, ok := splitTriple(text)
	if !ok {
		return Triple{}, ErrInvalidNames
	}
	return t, nil
}

// ParseDescriptions splits "es / en / ca" like ParseNames. The clear keyword,
// in any letter case, yields clear=true instead.
func ParseDescriptions(text string) (desc Triple, clear bool, err error) {
	if strings.EqualFold(strings.TrimSpace(text), ClearKeyword) {
		return Triple{}, true, nil
	}
	t, ok := splitTriple(text)
	if !ok {
		return Triple{}, false, ErrInvalidDescriptions
	}
	return t, false, nil
}

func splitTriple(text string) (Triple, bool) {
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return Triple{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Triple{}, false
		}
	}
	return Triple{ES: parts[0], EN: parts[1], CA: parts[2]}, true
}
