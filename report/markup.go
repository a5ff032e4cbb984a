package report

import (
	"fmt"
	"html"
	"strings"
)

// KV is one key/value line of a JSONText block.
type KV struct {
	Key   string
	Value interface{}
}

// JSONText renders pairs as the coloured key/value block appended to report
// messages, with red keys and blue values.
func JSONText(pairs ...KV) string {
	return JSONTextColored("red", "blue", pairs...)
}

// JSONTextColored is JSONText with custom key and value colours.
func JSONTextColored(keyColor, valueColor string, pairs ...KV) string {
	var b strings.Builder
	b.WriteString("<br/><pre lang='json' style='max-height: 500px; overflow-y: scroll; max-width: 1070px;'><code>")
	for i, p := range pairs {
		fmt.Fprintf(&b, "<font color='%s'>%s: </font><font color='%s'>'%s'</font>",
			html.EscapeString(keyColor), html.EscapeString(p.Key),
			html.EscapeString(valueColor), html.EscapeString(fmt.Sprint(p.Value)))
		if i+1 != len(pairs) {
			b.WriteString("<br/>")
		}
	}
	b.WriteString("</code></pre>")
	return b.String()
}

// CodeBlock renders s as a scrollable pre-formatted block, the way response
// bodies are shown.
func CodeBlock(s string) string {
	return "<pre lang='json' style='max-height: 700px; overflow-y: scroll; max-width: 1070px;'><code>" +
		html.EscapeString(s) + "</code></pre>"
}

// StackTrace renders an error message and a stack trace.
func StackTrace(msg, stack string) string {
	return html.EscapeString(msg) + "<br/><b>Stack trace:</b><br/><code><pre lang='red'>" +
		html.EscapeString(stack) + "</pre></code>"
}

// Link renders an anchor pointing at url.
func Link(url string) string {
	u := html.EscapeString(url)
	return "<a href='" + u + "'>" + u + "</a>"
}
