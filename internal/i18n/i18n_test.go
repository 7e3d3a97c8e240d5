// internal/i18n/i18n_test.go
package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance() *I18n {
	return &I18n{
		translations: map[string]map[string]string{
			"en": {
				"cart.item_added":    "Item added to cart",
				"validation.invalid": "Invalid %s",
			},
			"fr": {
				"cart.item_added": "Article ajouté au panier",
			},
		},
		defaultLang: "en",
	}
}

func TestTranslationLookup(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "Item added to cart", i.T("en", "cart.item_added"))
	assert.Equal(t, "Article ajouté au panier", i.T("fr", "cart.item_added"))
}

func TestTranslationFallsBackToDefaultLanguage(t *testing.T) {
	i := testInstance()

	// The key exists in en only; a fr request still gets a message.
	assert.Equal(t, "Invalid %s", i.T("fr", "validation.invalid"))
}

func TestTranslationFallsBackToKey(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "no.such.key", i.T("en", "no.such.key"))
	assert.Equal(t, "no.such.key", i.T("de", "no.such.key"))
}

func TestTranslationFormatsArguments(t *testing.T) {
	i := testInstance()

	assert.Equal(t, "Invalid input", i.T("en", "validation.invalid", "input"))
}

func TestLoadTranslationsFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"greeting": "Hello"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.json"), []byte(`{"greeting": "Bonjour"}`), 0o644))

	i := &I18n{translations: make(map[string]map[string]string), defaultLang: "en"}
	require.NoError(t, i.LoadTranslations(dir))

	assert.Equal(t, "Hello", i.T("en", "greeting"))
	assert.Equal(t, "Bonjour", i.T("fr", "greeting"))
}

func TestLoadTranslationsMissingFile(t *testing.T) {
	i := &I18n{translations: make(map[string]map[string]string), defaultLang: "en"}

	err := i.LoadTranslations(t.TempDir())
	assert.Error(t, err)
}
