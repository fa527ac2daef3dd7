package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{
		"ar":      Arabic,
		" AR ":    Arabic,
		"arabic":  Arabic,
		"en":      English,
		"":        English,
		"fr":      English,
		"english": English,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLanguage(in), "input %q", in)
	}
}

func TestTableRenderFallsBackToEnglish(t *testing.T) {
	table, err := NewTable(Entries{
		"hello": {English: "Hello {{.}}", Arabic: "مرحبا {{.}}"},
		"bye":   {English: "Bye"},
	})
	require.NoError(t, err)

	out, err := table.Render("hello", Arabic, "Sara")
	require.NoError(t, err)
	assert.Equal(t, "مرحبا Sara", out)

	assert.Equal(t, "Bye", table.Text("bye", Arabic))

	_, err = table.Render("missing", English, nil)
	assert.Error(t, err)
}

func TestNewTableRequiresEnglishAndValidSyntax(t *testing.T) {
	_, err := NewTable(Entries{"only-ar": {Arabic: "مرحبا"}})
	assert.Error(t, err)

	_, err = NewTable(Entries{"broken": {English: "{{.Name"}})
	assert.Error(t, err)

	_, err = NewTable(Entries{"empty": {English: ""}})
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustNewTable(Entries{"broken": {English: "{{"}})
	})
}

func TestTableRenderMissingKeyFails(t *testing.T) {
	table := MustNewTable(Entries{"greet": {English: "Hello {{.Name}}"}})

	out, err := table.Render("greet", English, map[string]string{"Name": "Operator"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Operator", out)

	_, err = table.Render("greet", English, map[string]string{"Other": "x"})
	assert.Error(t, err)
	assert.Empty(t, table.Text("greet", English))
}
