// Package conv converts model output into transport-specific formats.
package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// tgPolicy keeps only the tags Telegram's HTML parse mode accepts; one
// unknown tag makes the API reject the whole message.
// https://core.telegram.org/bots/api#html-style
var tgPolicy = telegramPolicy()

func telegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}

func MarkdownToTelegramHTML(md []byte) string {
	// Parsers are stateful, one per call.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(tgPolicy.SanitizeBytes(markdown.Render(p.Parse(md), r)))
}
