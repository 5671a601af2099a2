package blocks

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/sitecounts/internal/ui/resources"
)

// PreviewID is the element ID live updates patch.
const PreviewID = "block-preview"

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// previewComponent wraps rendered block markup in the patch target element.
func previewComponent(blockHTML string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="`+PreviewID+`">`); err != nil {
			return err
		}
		if err := templ.Raw(blockHTML).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// entryPage is the full preview page for one entry. updatesURL is the SSE
// endpoint the page subscribes to; it must be percent-encoded.
func entryPage(title, updatesURL, blockHTML string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := fmt.Sprintf(`<!doctype html><html lang="en"><head><meta charset="utf-8"><title>%s - Site Counts</title>`+
			`<link rel="stylesheet" href="%s"><script type="module" src="%s"></script></head>`,
			templ.EscapeString(title), resources.StaticPath(resources.PreviewStylesheet), datastarScript)
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}

		body := fmt.Sprintf(`<body><main data-init="@get('%s')">`, templ.EscapeString(updatesURL))
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
		if err := previewComponent(blockHTML).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
