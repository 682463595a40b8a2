package wire

import "strings"

// The server escapes characters that collide with its own delimiters.
var textUnescaper = strings.NewReplacer(
	"$b", "\n",
	"$c", ":",
	"$s", "/",
	"$P", "%",
	"$a", "&",
	"$C", ",",
	"$S", ";",
	"$q", "\"",
	"$r", "#",
	"$$", "$",
)

// UnescapeText decodes a free-text value such as a description or a message.
func UnescapeText(s string) string {
	return textUnescaper.Replace(s)
}
