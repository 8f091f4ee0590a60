package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/scoutbot/internal/config"
	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/internal/service/agent"
	"github.com/sandevgo/scoutbot/pkg/log"
)

const (
	baseContextKey = "base_context"
	pollTimeout    = 10 * time.Second
)

type Bot struct {
	bot     *tele.Bot
	agent   *agent.Agent
	router  core.CmdRouter
	sender  *sender
	cfg     *config.TelegramConfig
	ownerID int64
}

// NewBot wires the relay's Telegram face: owner-gated long polling with
// the process context threaded into every handler.
func NewBot(ctx context.Context, cfg *config.TelegramConfig, agent *agent.Agent, router core.CmdRouter) (*Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		agent:   agent,
		router:  router,
		sender:  newSender(b),
		cfg:     cfg,
		ownerID: cfg.OwnerID,
	}

	b.Use(withBaseContext(ctx), bot.ownerGate())
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

// withBaseContext makes the process context reachable from handlers;
// telebot callbacks do not carry one.
func withBaseContext(ctx context.Context) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	}
}

// ownerGate drops traffic from anyone but the configured owner. The
// silence is deliberate: strangers get no hint the bot is alive.
func (b *Bot) ownerGate() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != b.ownerID {
				return nil
			}
			return next(c)
		}
	}
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram transport")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	log.FromCtx(ctx).Debug().Msg("telegram transport stopped")
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	if result, handled := b.router.Execute(ctx, sessionID, c.Text()); handled {
		return b.sender.sendMarkdown(ctx, c.Chat(), result, false)
	}

	_ = c.Notify(tele.Typing)

	draft := newDraftStream(b.bot, c.Chat())
	final, err := b.agent.Run(ctx, sessionID, c.Text(), func(increment string) {
		draft.Append(ctx, increment)
	})
	if err != nil {
		logger.Error().Err(err).Msg("agent run failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	if err := draft.Finalize(ctx, final); err != nil {
		logger.Error().Err(err).Msg("failed to deliver final answer")
		return err
	}
	return nil
}
