package i18n

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CataloguesShareKeys(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)

	en := b.catalogs[English]
	ta := b.catalogs[Tamil]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, ta, key, "ta catalogue missing %q", key)
	}
	for key := range ta {
		assert.Contains(t, en, key, "en catalogue missing %q", key)
	}
}

func TestBundle_T(t *testing.T) {
	fsys := fstest.MapFS{
		"translations/en.json": {Data: mustJSON(t, map[string]string{"hello": "Hello", "only_en": "English only"})},
		"translations/ta.json": {Data: mustJSON(t, map[string]string{"hello": "வணக்கம்"})},
	}
	b, err := LoadFS(fsys, "en")
	require.NoError(t, err)

	assert.Equal(t, "வணக்கம்", b.T("ta", "hello", "x"))
	assert.Equal(t, "English only", b.T("ta", "only_en", "x"), "falls back to English")
	assert.Equal(t, "Default", b.T("ta", "missing", "Default"), "falls back to default")
	assert.Equal(t, "missing", b.T("ta", "missing", ""), "falls back to key")
	assert.Equal(t, "Hello", b.T("fr", "hello", ""))

	tr := b.For("ta")
	assert.Equal(t, "ta", tr.Locale())
	assert.Equal(t, "வணக்கம்", tr.T("hello", ""))
	assert.Equal(t, "en", b.For("de").Locale())
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{}, "en")
	require.Error(t, err)

	_, err = Load("fr")
	require.Error(t, err)

	bad := fstest.MapFS{
		"translations/en.json": {Data: []byte("{")},
		"translations/ta.json": {Data: []byte("{}")},
	}
	_, err = LoadFS(bad, "")
	require.Error(t, err)
}

func TestBundle_Resolve(t *testing.T) {
	b, err := Load("en")
	require.NoError(t, err)

	tests := []struct {
		name    string
		session string
		accept  string
		want    string
	}{
		{"session wins", "ta", "en-US", "ta"},
		{"unsupported session ignored", "fr", "ta-IN,ta;q=0.9", "ta"},
		{"accept language region", "", "ta-IN", "ta"},
		{"accept language weights", "", "fr;q=0.9,ta;q=0.8,en;q=0.1", "ta"},
		{"no match uses default", "", "fr-FR", "en"},
		{"empty header uses default", "", "", "en"},
		{"garbage header uses default", "", ";;;", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Resolve(tt.session, tt.accept))
		})
	}

	taDefault, err := Load("ta")
	require.NoError(t, err)
	assert.Equal(t, "ta", taDefault.Resolve("", ""))
	assert.Equal(t, []string{"en", "ta"}, taDefault.Locales())
}

func TestTranslator_ZeroValue(t *testing.T) {
	var tr Translator
	assert.Equal(t, "Fallback", tr.T("k", "Fallback"))
	assert.Equal(t, "k", tr.T("k", ""))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
