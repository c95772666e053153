package render

import "strings"

// escapeRCData escapes text for textarea content and element text. Bytes
// other than & and < pass through unchanged, valid UTF-8 or not.
func escapeRCData(s string) string {
	if !strings.ContainsAny(s, "&<") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		default:
			buf.WriteByte(c)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for a double-quoted attribute value.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, `&"`) {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteByte(c)
		}
	}

	return buf.String()
}
