// Package extraction implements per-supplier field extraction from invoice
// text. A Registry holds the configured rule tables; the Engine applies a
// supplier's rules to raw text with primary-before-alternative fallback.
package extraction

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// ValueClass determines how a matched fragment is stored.
type ValueClass int

const (
	// ClassText stores the trimmed capture group verbatim.
	ClassText ValueClass = iota
	// ClassNumeric passes the capture group through numeric normalization.
	ClassNumeric
)

// FieldRule locates one field. Primary is always attempted before
// Alternative; each uses only its first match and first capture group.
type FieldRule struct {
	Primary     *regexp.Regexp
	Alternative *regexp.Regexp
	Class       ValueClass
}

// SupplierProfile is the ordered rule table configured for one supplier.
type SupplierProfile struct {
	name  string
	order []string
	rules map[string]FieldRule
}

// Name returns the supplier identifier the profile is keyed under.
func (p *SupplierProfile) Name() string { return p.name }

// Fields returns the field names in configuration order.
func (p *SupplierProfile) Fields() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Rule returns the rule for field, with ok false for unconfigured fields.
func (p *SupplierProfile) Rule(field string) (FieldRule, bool) {
	r, ok := p.rules[field]
	return r, ok
}

// Registry maps supplier identifiers to their profiles. It is immutable once
// constructed, so a single instance is safe to share across workers.
type Registry struct {
	order    []string
	profiles map[string]*SupplierProfile
}

// FieldConfig is the declarative form of one FieldRule.
type FieldConfig struct {
	Name        string `toml:"name"`
	Primary     string `toml:"primary"`
	Alternative string `toml:"alternative"`
	Class       string `toml:"class"`
}

// SupplierConfig declares one supplier profile with its ordered fields.
type SupplierConfig struct {
	Name   string        `toml:"name"`
	Fields []FieldConfig `toml:"field"`
}

// Config is the full declarative registry definition. Adding a supplier or a
// field only touches this configuration, never the engine.
type Config struct {
	Suppliers []SupplierConfig `toml:"supplier"`
}

// NewRegistry compiles a declarative config into an immutable registry.
// Every pattern must compile and carry at least one capture group.
func NewRegistry(cfg Config) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*SupplierProfile, len(cfg.Suppliers))}

	for _, sc := range cfg.Suppliers {
		if sc.Name == "" {
			return nil, fmt.Errorf("supplier with empty name")
		}
		if _, dup := r.profiles[sc.Name]; dup {
			return nil, fmt.Errorf("duplicate supplier %q", sc.Name)
		}

		p := &SupplierProfile{
			name:  sc.Name,
			rules: make(map[string]FieldRule, len(sc.Fields)),
		}
		for _, fc := range sc.Fields {
			rule, err := compileRule(sc.Name, fc)
			if err != nil {
				return nil, err
			}
			if _, dup := p.rules[fc.Name]; dup {
				return nil, fmt.Errorf("supplier %q: duplicate field %q", sc.Name, fc.Name)
			}
			p.order = append(p.order, fc.Name)
			p.rules[fc.Name] = rule
		}

		r.order = append(r.order, sc.Name)
		r.profiles[sc.Name] = p
	}

	return r, nil
}

// LoadFile reads a TOML registry definition and compiles it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}
	return NewRegistry(cfg)
}

// Suppliers returns the configured supplier identifiers in declaration order.
func (r *Registry) Suppliers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Profile looks up a supplier profile, with ok false for unknown suppliers.
func (r *Registry) Profile(supplier string) (*SupplierProfile, bool) {
	p, ok := r.profiles[supplier]
	return p, ok
}

// Fields returns the ordered field names recognized for supplier. Unknown
// suppliers yield an empty slice, never an error.
func (r *Registry) Fields(supplier string) []string {
	p, ok := r.profiles[supplier]
	if !ok {
		return nil
	}
	return p.Fields()
}

func compileRule(supplier string, fc FieldConfig) (FieldRule, error) {
	if fc.Name == "" {
		return FieldRule{}, fmt.Errorf("supplier %q: field with empty name", supplier)
	}
	if fc.Primary == "" {
		return FieldRule{}, fmt.Errorf("supplier %q, field %q: primary pattern required", supplier, fc.Name)
	}

	var rule FieldRule
	switch fc.Class {
	case "", "text":
		rule.Class = ClassText
	case "numeric":
		rule.Class = ClassNumeric
	default:
		return FieldRule{}, fmt.Errorf("supplier %q, field %q: unknown value class %q", supplier, fc.Name, fc.Class)
	}

	var err error
	rule.Primary, err = compilePattern(fc.Primary)
	if err != nil {
		return FieldRule{}, fmt.Errorf("supplier %q, field %q: primary: %w", supplier, fc.Name, err)
	}
	if fc.Alternative != "" {
		rule.Alternative, err = compilePattern(fc.Alternative)
		if err != nil {
			return FieldRule{}, fmt.Errorf("supplier %q, field %q: alternative: %w", supplier, fc.Name, err)
		}
	}
	return rule, nil
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", expr)
	}
	return re, nil
}
