package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedsAllThreeLocales(t *testing.T) {
	cat := Load()
	locales := cat.Locales()
	require.Contains(t, locales, "zh-TW")
	require.Contains(t, locales, "ja")
	require.Contains(t, locales, "en")
}

func TestMessageReturnsRequestedLocale(t *testing.T) {
	cat := Load()
	assert.Equal(t, "SQL generated", cat.Message("en", "stage.sql_generated"))
	assert.Equal(t, "SQL を生成しました", cat.Message("ja", "stage.sql_generated"))
}

func TestMessageFallsBackToZhTWForUnknownLocale(t *testing.T) {
	cat := Load()
	assert.Equal(t, cat.Message("zh-TW", "stage.final"), cat.Message("fr", "stage.final"))
}

func TestMessageFallsBackToKeyWhenEvenFallbackLacksIt(t *testing.T) {
	cat := Load()
	assert.Equal(t, "no.such.key", cat.Message("en", "no.such.key"))
}
