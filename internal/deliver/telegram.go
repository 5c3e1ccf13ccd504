package deliver

import (
	"context"
	"errors"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"

	"rosebot/internal/config"
	"rosebot/pkg/logx"
)

// Telegram caps messages at 4096 runes; keep some slack for the title line.
const telegramLimit = 4000

// ErrNoTelegramCredentials is returned by NewTelegram when the bot token or
// chat id is missing.
var ErrNoTelegramCredentials = errors.New("deliver: telegram token or chat id not configured")

// Telegram delivers to a fixed chat through a bot. The bot is created in
// offline mode: no long polling, only outbound sends.
type Telegram struct {
	bot  *tele.Bot
	chat *tele.Chat
	log  logx.Logger
}

func NewTelegram(cfg config.TelegramConfig, log logx.Logger) (*Telegram, error) {
	if cfg.Token == "" || cfg.ChatID == 0 {
		return nil, ErrNoTelegramCredentials
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: 15 * time.Second},
		// No poller: this bot only pushes.
	})
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:  bot,
		chat: &tele.Chat{ID: cfg.ChatID},
		log:  log,
	}, nil
}

func (t *Telegram) Limit() int { return telegramLimit }

func (t *Telegram) Deliver(ctx context.Context, text, title string) (Status, error) {
	msg := text
	if title != "" {
		msg = title + "\n\n" + text
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(t.chat, msg)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return Status{Detail: ctx.Err().Error()}, ctx.Err()
	case err := <-done:
		if err != nil {
			return Status{Detail: err.Error()}, err
		}
	}

	t.log.Debug("telegram delivered",
		logx.String("title", title),
		logx.Int("chars", len([]rune(text))),
		logx.Duration("took", time.Since(start)),
	)
	return Status{Success: true, Detail: "ok"}, nil
}
