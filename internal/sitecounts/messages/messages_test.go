package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestPrinter_EntryCount(t *testing.T) {
	p := NewPrinter("")

	tests := []struct {
		count int
		want  string
	}{
		{count: 0, want: "There are 0 Posts."},
		{count: 1, want: "There is 1 Post."},
		{count: 2, want: "There are 2 Posts."},
		{count: 11, want: "There are 11 Posts."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, p.EntryCount(tt.count, "Post", "Posts"))
		})
	}
}

func TestPrinter_French(t *testing.T) {
	p := NewPrinter("fr")

	assert.Equal(t, language.French, p.Locale())
	assert.Equal(t, "Il y a 1 Page.", p.EntryCount(1, "Page", "Pages"))
	assert.Equal(t, "Il y a 3 Pages.", p.EntryCount(3, "Page", "Pages"))
	assert.Equal(t, "Nombre de publications", p.Sprintf(PostCounts))
}

func TestNewPrinter_LocaleMatching(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{locale: "", want: language.English},
		{locale: "en-US", want: language.English},
		{locale: "fr-CA", want: language.French},
		{locale: "de-DE,fr;q=0.8", want: language.French},
		{locale: "ja", want: language.English},
		{locale: "not a locale!", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPrinter(tt.locale).Locale())
		})
	}
}

func TestPrinter_Sprintf(t *testing.T) {
	p := NewPrinter("en")
	assert.Equal(t, "The current post ID is 42.", p.Sprintf(CurrentPostID, 42))
	assert.Equal(t, RecentEntries, p.Sprintf(RecentEntries))
}
