package templates

import (
	"errors"
	"fmt"
	"text/template"
)

// Entries is the raw form of a Table: template id -> language -> template text.
type Entries map[string]map[Language]string

type key struct {
	id   string
	lang Language
}

// Table is an immutable set of templates keyed by (template id, language).
// Lookups for a language that has no entry fall back to English.
type Table struct {
	parsed map[key]*template.Template
}

// NewTable parses every entry up front so rendering never fails on syntax.
// Every id must carry an English entry.
func NewTable(entries Entries) (*Table, error) {
	t := &Table{parsed: make(map[key]*template.Template)}
	var errs []error
	for id, byLang := range entries {
		if _, ok := byLang[English]; !ok {
			errs = append(errs, fmt.Errorf("templates: %q has no %q entry", id, English))
		}
		for lang, text := range byLang {
			parsed, err := parse(id+"."+string(lang), text)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			t.parsed[key{id: id, lang: lang}] = parsed
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// MustNewTable is NewTable for package-level tables.
func MustNewTable(entries Entries) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes template id for lang against data.
func (t *Table) Render(id string, lang Language, data any) (string, error) {
	if t == nil {
		return "", errors.New("templates: nil table")
	}
	tmpl, ok := t.parsed[key{id: id, lang: lang}]
	if !ok {
		tmpl, ok = t.parsed[key{id: id, lang: English}]
	}
	if !ok {
		return "", fmt.Errorf("templates: unknown template %q", id)
	}
	return execute(tmpl, data)
}

// Text renders a template that takes no data.
func (t *Table) Text(id string, lang Language) string {
	out, err := t.Render(id, lang, nil)
	if err != nil {
		return ""
	}
	return out
}
