package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter renders command replies in the markdown dialect both
// transports accept.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// Combine stacks rendered sections into one reply.
func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️ **%s**\n\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return "✅ **" + message + "**\n"
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) List(items ...string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "› %s\n", item)
	}
	return b.String()
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**:\n```%s```\n", command)
}

func (f *ResponseFormatter) Examples(examples ...string) string {
	var b strings.Builder
	b.WriteString("**Examples**:\n")
	for _, ex := range examples {
		fmt.Fprintf(&b, "`%s`\n", ex)
	}
	return b.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}
