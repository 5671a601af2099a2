package sitecounts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// View is the data the block markup is rendered from. All strings are
// unescaped; the component escapes them.
type View struct {
	ClassName     string
	CountsHeading string
	Counts        []string
	CurrentEntry  string

	// ShowRecent is false when the recent entries query returned nothing.
	ShowRecent    bool
	RecentHeading string
	Recent        []string
}

// BlockComponent renders the block markup.
func BlockComponent(v View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<div class="`)
		hw.text(v.ClassName)
		hw.raw(`">`)

		hw.raw(`<h2>`)
		hw.text(v.CountsHeading)
		hw.raw(`</h2><ul>`)
		for _, sentence := range v.Counts {
			hw.raw(`<li>`)
			hw.text(sentence)
			hw.raw(`</li>`)
		}
		hw.raw(`</ul>`)

		hw.raw(`<p>`)
		hw.text(v.CurrentEntry)
		hw.raw(`</p>`)

		if v.ShowRecent {
			hw.raw(`<h2>`)
			hw.text(v.RecentHeading)
			hw.raw(`</h2><ul>`)
			for _, title := range v.Recent {
				hw.raw(`<li>`)
				hw.text(title)
				hw.raw(`</li>`)
			}
			hw.raw(`</ul>`)
		}

		hw.raw(`</div>`)
		return hw.err
	})
}

// htmlWriter writes markup, keeping the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s escaped for element content and quoted attribute values.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}
