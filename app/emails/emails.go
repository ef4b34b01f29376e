// Package emails embeds the markdown email templates and their layouts.
package emails

import "embed"

// Template names.
const (
	Welcome = "welcome.md"
)

//go:embed *.md layouts/*.html
var FS embed.FS

// WelcomeData is the template data of Welcome.
type WelcomeData struct {
	Username string
	LoginURL string
}
