package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{name: "default", locale: "", want: "en"},
		{name: "english", locale: "en", want: "en"},
		{name: "case insensitive", locale: "zh-CN", want: "zh-cn"},
		{name: "unknown", locale: "xx", want: "en"},
		{name: "unknown region", locale: "en-GB", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Locale())
		})
	}
}

func TestCatalog_T(t *testing.T) {
	c := Must("en")

	msg := c.T(WritingJS, ".vscode/parser.js")
	assert.Contains(t, msg, ".vscode/parser.js")
	assert.NotContains(t, msg, "{0}")

	assert.Equal(t, "no.such.key", c.T("no.such.key"))
	assert.NotEmpty(t, c.T(InvalidEcmascriptParser, "x"))
}

func TestCatalog_AllLocalesHaveKeys(t *testing.T) {
	keys := []string{InvalidEcmascriptParser, WritingJS, Loading, Saved}
	for _, locale := range Locales() {
		messages, err := load(locale)
		require.NoError(t, err, locale)
		for _, k := range keys {
			assert.Contains(t, messages, k, "locale %s", locale)
		}
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "a 1 b 2 a 1", format("a {0} b {1} a {0}", []any{1, 2}))
	assert.Equal(t, "keep {0}", format("keep {0}", nil))
}
