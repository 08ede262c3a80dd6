// Package numeric converts locale-formatted amount strings into canonical
// decimals. Invoice text mixes grouping styles ("1 234,56", "1.234,56",
// "23,00"), so normalization strips grouping characters, resolves the decimal
// comma and rounds to two fractional digits.
package numeric

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// grouped matches digit groups of up to three, separated by a space or period,
// with a mandatory decimal comma. Both separators are treated as grouping
// characters even when mixed within one value.
var (
	grouped = regexp.MustCompile(`\d{1,3}(?:[ .]\d{3})*,\d+`)
	bareRun = regexp.MustCompile(`\d+`)
)

// Normalize extracts the first recognizable numeric substring from raw and
// returns it as a decimal rounded to exactly two fractional digits.
// The boolean is false when raw is empty or contains no recognizable number.
// Normalize never fails on malformed input.
func Normalize(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Decimal{}, false
	}

	s := grouped.FindString(raw)
	if s == "" {
		s = bareRun.FindString(raw)
	}
	if s == "" {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}

// NormalizeString returns the canonical two-decimal string form ("1234.56")
// used for representational comparisons, or "" when raw has no number.
func NormalizeString(raw string) string {
	d, ok := Normalize(raw)
	if !ok {
		return ""
	}
	return d.StringFixed(2)
}

// Canonical renders an already-normalized decimal in the canonical two-decimal
// form shared by extraction results and the gold ledger.
func Canonical(d decimal.Decimal) string {
	return d.StringFixed(2)
}
