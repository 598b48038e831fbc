// Package i18n resolves localized display strings from resource groups ("tables") embedded in
// the binary. A lookup that finds no translation returns the key unchanged.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// BaseLocale is the locale every other locale falls back to.
	BaseLocale = "en-US"
	// DefaultTable is the application's primary resource group.
	DefaultTable = "Localizable"
)

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultLocalizer atomic.Pointer[Localizer]

func init() {
	b, err := Load(embeddedFS)
	if err != nil {
		panic(err)
	}
	defaultLocalizer.Store(b.Localizer(BaseLocale))
}

// Default returns the process-wide localizer.
func Default() *Localizer {
	return defaultLocalizer.Load()
}

// SetDefault replaces the process-wide localizer used by Lookup and Sprintf.
func SetDefault(l *Localizer) {
	if l != nil {
		defaultLocalizer.Store(l)
	}
}

// Lookup resolves key with the process-wide localizer.
func Lookup(key string, opts ...Option) string {
	return Default().Lookup(key, opts...)
}

// Sprintf resolves key in the default table and formats it with args.
func Sprintf(key string, args ...any) string {
	return Default().Lookup(key, WithArgs(args...))
}

/* Bundle
------------------------------------------------------------------------------------------------- */

type resourceFile struct {
	Locale   string            `yaml:"locale"`
	Table    string            `yaml:"table"`
	Messages map[string]string `yaml:"messages"`
}

type table struct {
	builder  *catalog.Builder
	messages map[string]map[string]string // locale -> key -> message
}

// Bundle holds every resource group of every locale loaded from a filesystem.
type Bundle struct {
	locales []string
	tags    []language.Tag
	matcher language.Matcher
	tables  map[string]*table
}

// LoadEmbedded loads the resource groups compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return Load(embeddedFS)
}

// Load reads resource groups laid out as locales/<locale>/<table>.yaml from fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob resource files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no resource files found")
	}
	sort.Strings(paths)

	b := &Bundle{tables: make(map[string]*table)}
	seen := make(map[string]bool)
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read resource file %s: %w", p, err)
		}
		var rf resourceFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse resource file %s: %w", p, err)
		}
		locale, err := b.add(p, rf)
		if err != nil {
			return nil, err
		}
		if !seen[locale] {
			seen[locale] = true
			b.locales = append(b.locales, locale)
		}
	}
	if !seen[BaseLocale] {
		return nil, fmt.Errorf("base locale %s has no resource files", BaseLocale)
	}

	// the base locale leads so the matcher falls back to it
	sort.Slice(b.locales, func(i, j int) bool {
		if b.locales[i] == BaseLocale || b.locales[j] == BaseLocale {
			return b.locales[i] == BaseLocale
		}
		return b.locales[i] < b.locales[j]
	})
	for _, l := range b.locales {
		b.tags = append(b.tags, language.MustParse(l))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// add registers the messages of one resource file and returns its normalized locale.
func (b *Bundle) add(p string, rf resourceFile) (string, error) {
	localeFromPath := path.Base(path.Dir(p))
	tableFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(rf.Locale)
	if locale != localeFromPath {
		return "", fmt.Errorf("resource file %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("resource file %s: parse locale %q: %w", p, locale, err)
	}
	name := strings.TrimSpace(rf.Table)
	if name != tableFromPath {
		return "", fmt.Errorf("resource file %s: table %q must match file name %q", p, name, tableFromPath)
	}
	if len(rf.Messages) == 0 {
		return "", fmt.Errorf("resource file %s: messages are required", p)
	}

	t, ok := b.tables[name]
	if !ok {
		t = &table{
			builder:  catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
			messages: make(map[string]map[string]string),
		}
		b.tables[name] = t
	}
	if _, exists := t.messages[locale]; exists {
		return "", fmt.Errorf("resource file %s: table %q already defined for locale %q", p, name, locale)
	}
	msgs := make(map[string]string, len(rf.Messages))
	for key, value := range rf.Messages {
		if strings.TrimSpace(key) == "" {
			return "", fmt.Errorf("resource file %s: message key cannot be blank", p)
		}
		if err := t.builder.SetString(tag, key, value); err != nil {
			return "", fmt.Errorf("resource file %s: set message %q: %w", p, key, err)
		}
		msgs[key] = value
	}
	t.messages[locale] = msgs
	return locale, nil
}

// Locales returns the loaded locales with the base locale first.
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.locales...)
}

// Tables returns the names of the loaded resource groups.
func (b *Bundle) Tables() []string {
	out := make([]string, 0, len(b.tables))
	for name := range b.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Localizer returns a localizer for the best loaded match of locale. Unparseable or unsupported
// locales resolve to BaseLocale.
func (b *Bundle) Localizer(locale string) *Localizer {
	resolved := BaseLocale
	if tag, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		if _, i, conf := b.matcher.Match(tag); conf != language.No {
			resolved = b.locales[i]
		}
	}
	return &Localizer{bundle: b, locale: resolved}
}

/* Localizer
------------------------------------------------------------------------------------------------- */

// Localizer looks up display strings for a single locale.
type Localizer struct {
	bundle *Bundle
	locale string
}

// Locale is the resolved locale of the localizer.
func (l *Localizer) Locale() string {
	if l == nil {
		return BaseLocale
	}
	return l.locale
}

// Lookup returns the localized string for key in the selected table (DefaultTable unless
// WithTable is given), falling back to BaseLocale and then to key itself. The message is only
// formatted when WithArgs is given.
func (l *Localizer) Lookup(key string, opts ...Option) string {
	o := lookupOptions{table: DefaultTable}
	for _, opt := range opts {
		opt(&o)
	}
	if l == nil || l.bundle == nil {
		return key
	}
	t, ok := l.bundle.tables[o.table]
	if !ok {
		return key
	}

	locale := l.locale
	if _, ok := t.messages[locale][key]; !ok {
		locale = BaseLocale
		if _, ok := t.messages[locale][key]; !ok {
			return key
		}
	}
	// without args the stored message is returned as written, verbs and literal % included
	if len(o.args) == 0 {
		return t.messages[locale][key]
	}
	p := message.NewPrinter(language.MustParse(locale), message.Catalog(t.builder))
	return p.Sprintf(key, o.args...)
}

/* Lookup Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type lookupOptions struct {
	table   string
	comment string
	args    []any
}

type Option = func(o *lookupOptions)

// WithTable selects the resource group to look the key up in.
func WithTable(name string) Option {
	return func(o *lookupOptions) { o.table = name }
}

// WithComment describes the string for translators; it does not change the result.
func WithComment(comment string) Option {
	return func(o *lookupOptions) { o.comment = comment }
}

// WithArgs formats the resolved message with args.
func WithArgs(args ...any) Option {
	return func(o *lookupOptions) { o.args = args }
}
