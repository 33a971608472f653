// Package i18n provides the user-facing message catalog.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Message keys used outside this package.
const (
	InvalidEcmascriptParser = "prompt.invalid_ecmascript_parser"
	WritingJS               = "prompt.writing_js"
	Loading                 = "parser.loading"
	Saved                   = "parser.saved"
)

// DefaultLocale is used when the requested locale has no catalog, and for
// keys missing from a catalog.
const DefaultLocale = "en"

//go:embed locales/*.toml
var localeFS embed.FS

// Translator renders the message identified by key. Positional arguments
// replace {0}, {1}, ... placeholders.
type Translator interface {
	T(key string, args ...any) string
}

// Catalog is a Translator backed by the embedded catalogs.
type Catalog struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// New loads the catalog for locale, falling back to English.
// Locale names are matched case-insensitively ("zh-CN" finds zh-cn.toml).
func New(locale string) (*Catalog, error) {
	fallback, err := load(DefaultLocale)
	if err != nil {
		return nil, err
	}

	c := &Catalog{locale: DefaultLocale, messages: fallback, fallback: fallback}

	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || locale == DefaultLocale {
		return c, nil
	}

	messages, err := load(locale)
	if err != nil {
		// Try the language alone: "fr-ca" -> "fr".
		lang, _, found := strings.Cut(locale, "-")
		if !found {
			return c, nil
		}
		if messages, err = load(lang); err != nil {
			return c, nil
		}
		locale = lang
	}
	c.locale = locale
	c.messages = messages
	return c, nil
}

// Must is like New but panics on a broken embedded catalog.
func Must(locale string) *Catalog {
	c, err := New(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the locale actually in use.
func (c *Catalog) Locale() string {
	return c.locale
}

// T renders key. Unknown keys render as the key itself.
func (c *Catalog) T(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		if msg, ok = c.fallback[key]; !ok {
			msg = key
		}
	}
	return format(msg, args)
}

// Locales lists the embedded catalogs.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".toml"))
	}
	return out
}

func load(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile(path.Join("locales", locale+".toml"))
	if err != nil {
		return nil, fmt.Errorf("no catalog for locale %q: %w", locale, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", locale, err)
	}

	messages := make(map[string]string)
	flatten("", raw, messages)
	return messages, nil
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func format(msg string, args []any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
