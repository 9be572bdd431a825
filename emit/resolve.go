package emit

import (
	"fmt"
	"strings"

	"mixgen/catalog"
	"mixgen/token"
)

// Resolution describes what generated dispatcher does with a single token.
type Resolution struct {
	Raw      string `yaml:"token"`
	Matched  bool   `yaml:"matched"`
	Mixin    string `yaml:"mixin,omitempty"`
	Category string `yaml:"category,omitempty"`
	Argument string `yaml:"argument,omitempty"`
	Scope    string `yaml:"scope,omitempty"`
	Warning  string `yaml:"warning,omitempty"`
}

// Resolve walks the same branch chain generated dispatcher has: exact simple
// names first, then "name(" prefixes of parameterized names, warning
// otherwise. Malformed tokens are matched as is and never reach parameterized
// branches.
func Resolve(cat *catalog.Catalog, raw string) Resolution {
	r := Resolution{Raw: raw}

	effective, value, hasValue := raw, "", false
	if t, err := token.Parse(raw); err == nil {
		effective, value, hasValue = t.Effective(), t.Value, t.HasValue
		r.Scope = t.Scope
	}

	for _, name := range cat.Simple.Items() {
		if effective == name {
			r.Matched, r.Mixin, r.Category = true, name, catalog.Simple.String()
			return r
		}
	}
	if hasValue {
		for _, name := range cat.Parameterized.Items() {
			if strings.HasPrefix(effective, name+"(") {
				r.Matched, r.Mixin, r.Category, r.Argument = true, name, catalog.Parameterized.String(), value
				return r
			}
		}
	}
	r.Warning = fmt.Sprintf("Mixin '%s' is not defined.", raw)
	return r
}
