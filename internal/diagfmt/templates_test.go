package diagfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"mycompiler/internal/diag"
)

func TestCompileTemplate(t *testing.T) {
	format, arity, err := compileTemplate("{1} before {0}, 100%")
	require.NoError(t, err)
	assert.Equal(t, "%[2]s before %[1]s, 100%%", format)
	assert.Equal(t, 2, arity)

	format, arity, err = compileTemplate("no placeholders")
	require.NoError(t, err)
	assert.Equal(t, "no placeholders", format)
	assert.Zero(t, arity)
}

func TestCatalogRender(t *testing.T) {
	cat, err := NewCatalog(
		Template{Code: 7, Lang: language.Russian, Text: "семь {0}"},
		Template{Code: 7, Lang: language.English, Text: "seven {0} ({1}%)"},
	)
	require.NoError(t, err)
	assert.Equal(t, []language.Tag{language.English, language.Russian}, cat.Languages())
	assert.True(t, cat.Has(7))
	assert.False(t, cat.Has(8))

	en := cat.Printer(language.English)
	msg, ok := cat.Render(en, 7, []string{"a", "50"})
	require.True(t, ok)
	assert.Equal(t, "seven a (50%)", msg)

	// арность считается по самому длинному шаблону кода
	_, ok = cat.Render(cat.Printer(language.Russian), 7, []string{"a"})
	assert.False(t, ok)

	msg, ok = cat.Render(cat.Printer(language.Russian), 7, []string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, "семь a", msg)

	_, ok = cat.Render(en, 8, nil)
	assert.False(t, ok)
}

func TestBuiltinTemplatesCoverBothLanguages(t *testing.T) {
	seen := map[diag.Code]map[language.Tag]bool{}
	for _, tpl := range builtinTemplates {
		if seen[tpl.Code] == nil {
			seen[tpl.Code] = map[language.Tag]bool{}
		}
		assert.False(t, seen[tpl.Code][tpl.Lang], "duplicate %s/%s", tpl.Code.ID(), tpl.Lang)
		seen[tpl.Code][tpl.Lang] = true
	}
	for code, langs := range seen {
		assert.True(t, langs[language.English], "%s has no English text", code.ID())
		assert.True(t, langs[language.Russian], "%s has no Russian text", code.ID())
	}
	assert.True(t, DefaultCatalog().Has(diag.LowerArityMismatch))
}
