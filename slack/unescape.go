package slack

import (
	"regexp"
	"strings"
)

var entityRgx = regexp.MustCompile(`<([?@#!]?)(.*?)>`)

var quoteReplacer = strings.NewReplacer(
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
)

// UnescapeText turns the wire form of a message back into what the user
// typed: links lose their angle brackets, smart quotes become plain quotes
// and &amp; becomes &.
//
// User and channel mentions keep their <@U..> form, and &lt; &gt; are left
// alone so that a bot repeating the text can't be made to ping @everyone.
func UnescapeText(msg string) string {
	msg = quoteReplacer.Replace(msg)
	msg = entityRgx.ReplaceAllStringFunc(msg, func(entity string) string {
		match := entityRgx.FindStringSubmatch(entity)
		left, right := match[2], match[2]
		if idx := strings.IndexByte(match[2], '|'); idx != -1 {
			left, right = match[2][:idx], match[2][idx+1:]
		}
		switch match[1] {
		case "@":
			return "<@" + left + ">"
		case "#":
			return entity
		case "!":
			if strings.HasPrefix(left, "date") {
				return right
			}
			return "@/" + right
		default:
			return right
		}
	})
	return strings.Replace(msg, "&amp;", "&", -1)
}
