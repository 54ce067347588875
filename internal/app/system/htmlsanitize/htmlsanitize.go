// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize strips dangerous HTML from user-supplied rich text while
// keeping basic formatting tags.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all HTML. Used for fields that must never carry
// markup, such as message text and center names.
func PlainText(s string) string {
	return strict.Sanitize(s)
}
