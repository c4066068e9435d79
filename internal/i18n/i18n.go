// Package i18n renders integrity reports in the user's language.
//
// Message catalogs live in locales/<tag>/<namespace>.yaml, are embedded in
// the binary and registered with golang.org/x/text/message at start-up.
// English is the fallback for unsupported languages and missing keys.
package i18n

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

// Message keys outside the per-code violation keys.
const (
	keyAccepted  = "report.accepted"
	keyConflict  = "report.conflict"
	keyEntity    = "entity."
	keyViolation = "violation."
)

// Fallback is used when no supported language matches.
var Fallback = language.English

//go:embed locales/*/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds the loaded catalogs and the matcher over their languages.
type Bundle struct {
	tags    []language.Tag
	matcher language.Matcher
	builder *catalog.Builder
}

var defaultBundle = mustLoad()

func mustLoad() *Bundle {
	b, err := LoadFromFS(localesFS)
	if err != nil {
		panic(err)
	}
	return b
}

// Default returns the bundle built from the embedded catalogs.
func Default() *Bundle {
	return defaultBundle
}

// LoadFromFS loads every locales/*/*.yaml file of fsys. The directory
// name must equal the locale declared inside the file, and the fallback
// language must be present.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	builder := catalog.NewBuilder(catalog.Fallback(Fallback))
	var tags []language.Tag
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		dir := path.Base(path.Dir(p))
		if file.Locale != dir {
			return nil, fmt.Errorf("catalog %s: locale %q must match directory %q", p, file.Locale, dir)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", p, key, err)
			}
		}
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	// The matcher prefers its first tag when nothing matches.
	i := slices.Index(tags, Fallback)
	if i < 0 {
		return nil, fmt.Errorf("fallback locale %s is not defined in catalogs", Fallback)
	}
	tags[0], tags[i] = tags[i], tags[0]

	return &Bundle{tags: tags, matcher: language.NewMatcher(tags), builder: builder}, nil
}

// Languages returns the supported languages, fallback first.
func (b *Bundle) Languages() []language.Tag {
	return slices.Clone(b.tags)
}

// Match picks the supported language closest to lang, which may be a
// BCP 47 tag or an Accept-Language style list such as "cs-CZ,en;q=0.5".
func (b *Bundle) Match(lang string) language.Tag {
	if strings.TrimSpace(lang) == "" {
		return Fallback
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return Fallback
	}
	_, i, conf := b.matcher.Match(desired...)
	if conf == language.No {
		return Fallback
	}
	return b.tags[i]
}

func (b *Bundle) printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.builder))
}

// Describe returns the message for code in tag's language. Unknown codes
// fall back to the code name.
func (b *Bundle) Describe(tag language.Tag, code types.ViolationCode) string {
	key := keyViolation + code.String()
	msg := b.printer(tag).Sprintf(key)
	if msg == key {
		return code.String()
	}
	return msg
}

// EntityName returns the localized name of an entity kind.
func (b *Bundle) EntityName(tag language.Tag, kind types.EntityKind) string {
	return b.printer(tag).Sprintf(keyEntity + string(kind))
}

// RenderReport writes one line per violation, "Code: message", followed by
// one indented line per conflicting record. An empty report renders as a
// single acceptance line.
func (b *Bundle) RenderReport(w io.Writer, tag language.Tag, report types.IntegrityReport) error {
	p := b.printer(tag)
	if report.Empty() {
		_, err := fmt.Fprintln(w, p.Sprintf(keyAccepted))
		return err
	}
	for _, e := range report {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Code, b.Describe(tag, e.Code)); err != nil {
			return err
		}
		for _, c := range e.Conflicts {
			key := ""
			if entity := c.Entity(); entity != nil {
				key = entity.String()
			}
			if _, err := fmt.Fprintln(w, p.Sprintf(keyConflict, b.EntityName(tag, c.Kind), key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Match is Default().Match.
func Match(lang string) language.Tag { return defaultBundle.Match(lang) }

// Describe is Default().Describe.
func Describe(tag language.Tag, code types.ViolationCode) string {
	return defaultBundle.Describe(tag, code)
}

// RenderReport is Default().RenderReport.
func RenderReport(w io.Writer, tag language.Tag, report types.IntegrityReport) error {
	return defaultBundle.RenderReport(w, tag, report)
}
