package app

import "strings"

// TemplateResolver picks the provider template for a segment label.
// Matching is by substring keyword on the lowercased label; unmatched
// labels (and levels without a configured override) fall back to Default.
type TemplateResolver struct {
	// Default is the global template name, required.
	Default string

	// Junior, Mid, Senior and Executive override Default for segments
	// whose label matches the corresponding keywords.
	Junior    string
	Mid       string
	Senior    string
	Executive string
}

// keyword groups, checked in order. "senior" is checked before "mid" so a
// label like "senior associate" resolves to the senior template.
var levelKeywords = []struct {
	level    string
	keywords []string
}{
	{"junior", []string{"junior", "intern", "entry"}},
	{"senior", []string{"senior"}},
	{"executive", []string{"executive", "director"}},
	{"mid", []string{"mid", "associate"}},
}

// Resolve returns the template name for the given segment label.
func (t TemplateResolver) Resolve(label string) string {
	lower := strings.ToLower(label)
	for _, group := range levelKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				if override := t.override(group.level); override != "" {
					return override
				}
				return t.Default
			}
		}
	}
	return t.Default
}

func (t TemplateResolver) override(level string) string {
	switch level {
	case "junior":
		return t.Junior
	case "mid":
		return t.Mid
	case "senior":
		return t.Senior
	case "executive":
		return t.Executive
	}
	return ""
}
