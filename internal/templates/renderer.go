package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Language selects which column of a Table is used.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// ParseLanguage maps caller input onto a supported language. Anything that is
// not Arabic is treated as English.
func ParseLanguage(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ar", "ara", "arabic":
		return Arabic
	default:
		return English
	}
}

// parse compiles tmpl with strict missing-key semantics.
func parse(name, tmpl string) (*template.Template, error) {
	if tmpl == "" {
		return nil, fmt.Errorf("templates: template text required for %q", name)
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("templates: parse %q: %w", name, err)
	}
	return t, nil
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: execute %q: %w", t.Name(), err)
	}
	return buf.String(), nil
}
