package maven

import (
	"regexp"
	"strings"
)

var (
	wholeReference = regexp.MustCompile(`^\$\{([^}]+)\}$`)
	anyReference   = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// reference reports whether value is exactly one ${name} reference and
// returns the name. Anything else is a literal.
func reference(value string) (string, bool) {
	m := wholeReference.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// substituteProperties performs one substitution pass over props. Values
// that are a single reference to a bound name take that name's value as it
// was before the pass; all other values are copied unchanged.
func substituteProperties(props map[string]string) map[string]string {
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v
		if name, ok := reference(v); ok {
			if bound, ok := props[name]; ok {
				out[k] = bound
			}
		}
	}
	return out
}

// interpolate replaces every ${name} in s that is bound in props. Unbound
// references stay in place and replacement text is not scanned again.
func interpolate(s string, props map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return anyReference.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := props[ref[2:len(ref)-1]]; ok {
			return v
		}
		return ref
	})
}

// concrete reports whether s has no unresolved placeholder left.
func concrete(s string) bool {
	return !strings.Contains(s, "${")
}
