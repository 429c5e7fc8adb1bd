package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"
)

type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Telegram is an optional secondary alert sink. Send-only: the bot never
// polls for updates.
type Telegram struct {
	cfg TelegramConfig
	bot *tele.Bot
}

func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Offline: true, // skip the getMe roundtrip; we only ever send
	})
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{cfg: cfg, bot: b}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, a Alert) error {
	text := a.Title + "\n\n" + a.Preview
	_, err := t.bot.Send(tele.ChatID(t.cfg.ChatID), text, &tele.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
