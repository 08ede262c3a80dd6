package extraction

import "github.com/shopspring/decimal"

type valueKind int

const (
	kindNull valueKind = iota
	kindText
	kindNumber
)

// FieldValue is the value of one extracted field: free text, a canonical
// two-decimal amount, or null when nothing matched. The zero value is null.
type FieldValue struct {
	kind   valueKind
	text   string
	number decimal.Decimal
}

// NullValue returns the explicit null field value.
func NullValue() FieldValue { return FieldValue{} }

// TextValue wraps a matched text fragment.
func TextValue(s string) FieldValue { return FieldValue{kind: kindText, text: s} }

// NumberValue wraps a normalized amount.
func NumberValue(d decimal.Decimal) FieldValue { return FieldValue{kind: kindNumber, number: d} }

// IsNull reports whether the field had no extractable value.
func (v FieldValue) IsNull() bool { return v.kind == kindNull }

// Text returns the text value; ok is false for null and numeric values.
func (v FieldValue) Text() (string, bool) { return v.text, v.kind == kindText }

// Number returns the numeric value; ok is false for null and text values.
func (v FieldValue) Number() (decimal.Decimal, bool) {
	return v.number, v.kind == kindNumber
}

// String renders the value for serialization: the text verbatim, amounts in
// canonical two-decimal form, and "" for null.
func (v FieldValue) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return v.number.StringFixed(2)
	default:
		return ""
	}
}

// Result is the immutable outcome of extracting one document. Document is
// recorded by the orchestrator; the engine itself leaves it empty.
type Result struct {
	Supplier  string
	Document  string
	Requested []string
	Fields    map[string]FieldValue
}

// Field returns the value for name, or null when name was not requested.
func (r Result) Field(name string) FieldValue {
	return r.Fields[name]
}
