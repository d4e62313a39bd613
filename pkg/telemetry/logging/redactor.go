package logging

import (
	"regexp"
)

// Pattern is a named redaction rule.
type Pattern struct {
	Name        string
	Regex       string
	Replacement string
}

// Common pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternEmail       = "email"
	PatternSSN         = "ssn"
	PatternPhone       = "phone"
)

// Redactor replaces sensitive substrings in strings bound for logs.
type Redactor struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with the default patterns plus any
// custom ones. Custom patterns that fail to compile are skipped.
func NewRedactor(custom []Pattern) *Redactor {
	r := &Redactor{}
	r.addDefaults()

	for _, p := range custom {
		regex, err := regexp.Compile(p.Regex)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, compiledPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}
	return r
}

func (r *Redactor) addDefaults() {
	defaults := []Pattern{
		{
			Name:        PatternAPIKey,
			Regex:       `(sk-[a-zA-Z0-9]+|api[-_]?key[-_:]\s*[a-zA-Z0-9]+)`,
			Replacement: "sk-***",
		},
		{
			Name:        PatternBearerToken,
			Regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			Replacement: "Bearer ***",
		},
		{
			Name:        PatternEmail,
			Regex:       `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
			Replacement: "***@***",
		},
		{
			Name:        PatternSSN,
			Regex:       `\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`,
			Replacement: "***-**-****",
		},
		{
			Name:        PatternPhone,
			Regex:       `\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`,
			Replacement: "***-***-****",
		},
	}
	for _, p := range defaults {
		r.patterns = append(r.patterns, compiledPattern{
			name:        p.Name,
			regex:       regexp.MustCompile(p.Regex),
			replacement: p.Replacement,
		})
	}
}

// Redact applies every pattern to the input and returns the result.
func (r *Redactor) Redact(s string) string {
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}
