package extraction

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/invoice-recon/pkg/numeric"
)

// Engine applies supplier rule tables to raw invoice text. It carries no
// state beyond the immutable registry, so one engine serves any number of
// concurrent callers.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the given registry.
func NewEngine(r *Registry) *Engine {
	return &Engine{registry: r}
}

// Extract resolves every requested field against the supplier's profile.
//
// For each field the primary pattern is searched first and, only if it finds
// nothing, the alternative. The first match in document order wins, never
// the longest or the last, and its first capture group, trimmed, becomes the
// value. Numeric fields are normalized to a canonical two-decimal amount;
// normalization failure stores null. Unknown suppliers and unconfigured
// fields resolve to null, with the supplier tag recorded verbatim. Extract
// never fails: absence of data is represented in the result, not raised.
func (e *Engine) Extract(text, supplier string, fields []string) Result {
	res := Result{
		Supplier:  supplier,
		Requested: append([]string(nil), fields...),
		Fields:    make(map[string]FieldValue, len(fields)),
	}

	profile, known := e.registry.Profile(supplier)
	for _, name := range fields {
		if !known {
			res.Fields[name] = NullValue()
			continue
		}
		rule, ok := profile.Rule(name)
		if !ok {
			res.Fields[name] = NullValue()
			continue
		}
		res.Fields[name] = applyRule(text, rule)
	}

	return res
}

func applyRule(text string, rule FieldRule) FieldValue {
	raw, matched := searchPatterns(text, rule)
	if !matched {
		return NullValue()
	}
	if rule.Class == ClassNumeric {
		d, ok := numeric.Normalize(raw)
		if !ok {
			return NullValue()
		}
		return NumberValue(d)
	}
	return TextValue(raw)
}

// searchPatterns returns the trimmed first capture group of the first match,
// trying the primary pattern before the alternative.
func searchPatterns(text string, rule FieldRule) (string, bool) {
	for _, re := range []*regexp.Regexp{rule.Primary, rule.Alternative} {
		if re == nil {
			continue
		}
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
