// Package i18n resolves visitor-facing strings from the embedded locale
// catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var catalogFS embed.FS

// Catalog holds every supported locale.
type Catalog struct {
	uni           *ut.UniversalTranslator
	defaultLocale string
	matcher       language.Matcher
	messages      map[string]map[string]string
}

// New loads the embedded catalogs. defaultLocale is used when negotiation
// finds nothing better; it must be one of the embedded locales.
func New(defaultLocale string) (*Catalog, error) {
	supported := map[string]locales.Translator{
		"fr": fr.New(),
		"en": en.New(),
	}
	fallback, ok := supported[defaultLocale]
	if !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}

	names := make([]string, 0, len(supported))
	for name := range supported {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]locales.Translator, 0, len(names))
	for _, name := range names {
		all = append(all, supported[name])
	}

	c := &Catalog{
		uni:           ut.New(fallback, all...),
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]string, len(names)),
	}

	// The default locale goes first so the matcher falls back to it.
	tags := []language.Tag{language.Make(defaultLocale)}
	for _, name := range names {
		flat, err := loadCatalog(name)
		if err != nil {
			return nil, err
		}
		trans, _ := c.uni.GetTranslator(name)
		for key, text := range flat {
			if err := trans.Add(key, text, true); err != nil {
				return nil, fmt.Errorf("locale %s key %s: %w", name, key, err)
			}
		}
		c.messages[name] = flat
		if name != defaultLocale {
			tags = append(tags, language.Make(name))
		}
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func loadCatalog(name string) (map[string]string, error) {
	raw, err := catalogFS.ReadFile(path.Join("locales", name+".json"))
	if err != nil {
		return nil, err
	}
	var tree map[string]interface{}
	if err := sonic.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", name, err)
	}
	flat := make(map[string]string)
	flatten("", tree, flat)
	return flat, nil
}

// flatten turns nested objects into dotted keys. Non-string leaves are
// skipped.
func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]interface{}:
			flatten(key, val, out)
		}
	}
}

// Negotiate picks a supported locale from an explicit choice (for example
// a ?lang= parameter) and then the Accept-Language header.
func (c *Catalog) Negotiate(explicit, acceptLanguage string) string {
	tag, _ := language.MatchStrings(c.matcher, explicit, acceptLanguage)
	base, _ := tag.Base()
	if _, ok := c.messages[base.String()]; ok {
		return base.String()
	}
	return c.defaultLocale
}

func (c *Catalog) Supports(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}

func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Locales lists the supported locales in sorted order.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for name := range c.messages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Messages returns a copy of the flattened catalog of locale.
func (c *Catalog) Messages(locale string) (map[string]string, bool) {
	flat, ok := c.messages[locale]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(flat))
	for k, v := range flat {
		out[k] = v
	}
	return out, true
}

// Translator returns the resolver for locale, or for the default locale
// when locale is not supported.
func (c *Catalog) Translator(locale string) *Translator {
	if !c.Supports(locale) {
		locale = c.defaultLocale
	}
	trans, _ := c.uni.GetTranslator(locale)
	return &Translator{trans: trans, locale: locale}
}

// Translator resolves keys for a single locale.
type Translator struct {
	trans  ut.Translator
	locale string
}

func (t *Translator) Locale() string {
	return t.locale
}

// Resolve returns the text for key, or key itself when it is unknown.
func (t *Translator) Resolve(key string) string {
	text, err := t.trans.T(key)
	if err != nil || strings.TrimSpace(text) == "" {
		return key
	}
	return text
}
