package advisor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	c := DefaultCategories()

	tests := map[string]string{
		"chytré hodinky":  "Smartwatches",
		"Notebooky":       "Notebooks",
		"STOLNÍ POČÍTAČE": "Desktops",
		"tablety":         "Tablets",
		"smartphony":      "Smartphones",
		"smartphones":     "Smartphones",
		"Cameras":         "Cameras",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, c.Canonical(in), "Canonical(%q)", in)
	}

	assert.Equal(t, []string{"Smartphones", "Tablety", "Smartwatches", "Notebooky", "Stolní počítače"}, c.Vocabulary())
}

func TestVocabularyIsCopy(t *testing.T) {
	c := DefaultCategories()
	v := c.Vocabulary()
	v[0] = "changed"

	assert.Equal(t, "Smartphones", c.Vocabulary()[0])
}

func TestParseCategories(t *testing.T) {
	t.Run("vocabulary defaults to canonical names", func(t *testing.T) {
		c, err := ParseCategories([]byte(`
categories:
  - name: Phones
    aliases: [telefony]
  - name: Tablets
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Phones", "Tablets"}, c.Vocabulary())
		assert.Equal(t, "Phones", c.Canonical("Telefony"))
	})

	t.Run("rejects empty table", func(t *testing.T) {
		_, err := ParseCategories([]byte("vocabulary: [A]\n"))
		assert.Error(t, err)
	})

	t.Run("rejects unnamed category", func(t *testing.T) {
		_, err := ParseCategories([]byte("categories:\n  - aliases: [x]\n"))
		assert.Error(t, err)
	})

	t.Run("rejects alias mapped twice", func(t *testing.T) {
		_, err := ParseCategories([]byte(`
categories:
  - name: Phones
    aliases: [mobil]
  - name: Tablets
    aliases: [Mobil]
`))
		assert.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := ParseCategories([]byte("categories: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoadCategories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Laptops\n    aliases: [notebooky]\n"), 0o644))

	c, err := LoadCategories(path)
	require.NoError(t, err)
	assert.Equal(t, "Laptops", c.Canonical("notebooky"))

	_, err = LoadCategories(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
