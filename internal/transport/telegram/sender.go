package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/scoutbot/pkg/conv"
	"github.com/sandevgo/scoutbot/pkg/log"
)

const (
	maxTelegramMsgLen = 4000 // headroom under the 4096 hard limit
	editThrottle      = 900 * time.Millisecond
)

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown renders markdown to Telegram HTML and delivers it,
// splitting answers that overflow a single message.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := []interface{}{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// draftStream grows one telegram message out of streamed increments. The
// draft is edited in place as plain text, rate-limited so long answers do
// not hit the edit quota, then replaced with the rendered answer at the end.
type draftStream struct {
	bot  *tele.Bot
	to   tele.Recipient
	mu   sync.Mutex
	msg  *tele.Message
	text strings.Builder
	last time.Time
}

func newDraftStream(bot *tele.Bot, to tele.Recipient) *draftStream {
	return &draftStream{bot: bot, to: to}
}

func (d *draftStream) Append(ctx context.Context, increment string) {
	if increment == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.text.WriteString(increment)
	preview := d.text.String()

	if d.msg == nil {
		m, err := d.bot.Send(d.to, preview)
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to send draft message")
			return
		}
		d.msg = m
		d.last = time.Now()
		return
	}

	if time.Since(d.last) < editThrottle {
		return
	}
	if m, err := d.bot.Edit(d.msg, preview); err == nil {
		d.msg = m
		d.last = time.Now()
	}
}

// Finalize swaps the plain draft for the rendered HTML answer, spilling
// into follow-up messages when the answer exceeds the telegram limit.
func (d *draftStream) Finalize(ctx context.Context, md string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	chunks := splitHTML(html, maxTelegramMsgLen)
	if d.msg != nil {
		if m, err := d.bot.Edit(d.msg, chunks[0], tele.ModeHTML); err == nil {
			d.msg = m
		} else {
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to render final draft, keeping plain text")
		}
		chunks = chunks[1:]
	}

	for i, chunk := range chunks {
		if _, err := d.bot.Send(d.to, chunk, tele.ModeHTML); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML cuts text into message-sized pieces, preferring newline
// boundaries so formatting survives the split. A newline in the first
// third of a piece is too lopsided to cut at.
func splitHTML(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
