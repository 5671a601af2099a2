// Package resources serves static assets for the preview pages.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// PreviewStylesheet is the stylesheet linked from entry preview pages.
const PreviewStylesheet = "preview.css"
