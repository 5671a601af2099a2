// Package messages holds the translated, pluralized strings the site counts
// block renders.
package messages

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Keys double as the English source strings.
const (
	PostCounts    = "Post Counts"
	EntryCount    = "There is %[1]d %[2]s."
	CurrentPostID = "The current post ID is %d."
	RecentEntries = "5 posts with the tag of foo and the category of baz"
)

// DefaultLocale is used when no locale, or an unsupported one, is requested.
var DefaultLocale = language.English

var translations = map[language.Tag]map[string]catalog.Message{
	language.English: {
		PostCounts: catalog.String(PostCounts),
		EntryCount: plural.Selectf(1, "%d",
			plural.One, "There is %[1]d %[2]s.",
			plural.Other, "There are %[1]d %[3]s.",
		),
		CurrentPostID: catalog.String(CurrentPostID),
		RecentEntries: catalog.String(RecentEntries),
	},
	language.French: {
		PostCounts: catalog.String("Nombre de publications"),
		EntryCount: plural.Selectf(1, "%d",
			plural.One, "Il y a %[1]d %[2]s.",
			plural.Other, "Il y a %[1]d %[3]s.",
		),
		CurrentPostID: catalog.String("L’identifiant de la publication actuelle est %d."),
		RecentEntries: catalog.String("5 publications avec l’étiquette foo et la catégorie baz"),
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(Supported())
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.Set(tag, key, msg); err != nil {
				panic("messages: invalid catalog entry " + key + ": " + err.Error())
			}
		}
	}
	return b
}

// Supported returns the locales with translations, default first.
func Supported() []language.Tag {
	return []language.Tag{language.English, language.French}
}

// Printer formats block strings for one locale.
type Printer struct {
	p   *message.Printer
	tag language.Tag
}

// NewPrinter returns a printer for the best supported match of locale,
// which may be a BCP 47 tag or an Accept-Language header value.
func NewPrinter(locale string) *Printer {
	tag := DefaultLocale
	if locale != "" {
		if desired, _, err := language.ParseAcceptLanguage(locale); err == nil && len(desired) > 0 {
			if _, idx, conf := matcher.Match(desired...); conf != language.No {
				tag = Supported()[idx]
			}
		}
	}
	return &Printer{
		p:   message.NewPrinter(tag, message.Catalog(cat)),
		tag: tag,
	}
}

// Locale returns the locale the printer formats for.
func (p *Printer) Locale() language.Tag {
	return p.tag
}

// Sprintf formats a message key with args.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// EntryCount formats the per content type sentence. The locale's plural rules
// pick the label: in English only a count of one is singular, so zero reads
// "There are 0 Posts.".
func (p *Printer) EntryCount(count int, singular, plural string) string {
	return p.p.Sprintf(EntryCount, count, singular, plural)
}
