package ammonia

import "strings"

var textEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"`", "&grave;",
	"/", "&#47;",
	"&", "&amp;",
	"=", "&#61;",
	" ", "&#32;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\x0c", "&#12;",
	"\r", "&#13;",
	"\x00", "&#65533;",
)

// CleanText escapes s so it can be put as is into HTML text content or into
// an attribute value in single or double quotes. It isn't enough for unquoted
// attribute values, for attributes with their own microsyntax like class or
// id, or for the content of <script> and <style>. URLs, CSS and script
// strings need their own escapers.
//
// Example:
//
//	CleanText("<script>") // "&lt;script&gt;"
func CleanText(s string) string { return textEscaper.Replace(s) }
